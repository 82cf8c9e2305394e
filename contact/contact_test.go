package contact

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestValidateValidForm(t *testing.T) {
	f := Form{Name: "Ana", Email: "ana@example.co", Message: "Necesito asesoría laboral"}
	if errs := Validate(f); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateMessages(t *testing.T) {
	cases := []struct {
		name  string
		form  Form
		field string
		want  string
	}{
		{"empty name", Form{Name: "  ", Email: "a@b.co", Message: "mensaje largo"}, FieldName, "El nombre es requerido"},
		{"empty email", Form{Name: "A", Email: "", Message: "mensaje largo"}, FieldEmail, "El email es requerido"},
		{"bad email", Form{Name: "A", Email: "a@b", Message: "mensaje largo"}, FieldEmail, "Por favor, ingresa un email válido"},
		{"empty message", Form{Name: "A", Email: "a@b.co", Message: ""}, FieldMessage, "El mensaje es requerido"},
		{"short message", Form{Name: "A", Email: "a@b.co", Message: "   corto   "}, FieldMessage, "El mensaje debe tener al menos 10 caracteres"},
	}
	for _, tc := range cases {
		errs := Validate(tc.form)
		if got := errs[tc.field]; got != tc.want {
			t.Errorf("%s: %s = %q, want %q", tc.name, tc.field, got, tc.want)
		}
		if len(errs) != 1 {
			t.Errorf("%s: expected exactly one error, got %v", tc.name, errs)
		}
	}
}

func TestValidateAllEmpty(t *testing.T) {
	errs := Validate(Form{})
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}
}

func TestValidateField(t *testing.T) {
	cases := []struct {
		field, value, want string
	}{
		{FieldName, "", RequiredMessage},
		{FieldName, "Ana", ""},
		{FieldEmail, "ana", "Por favor, ingresa un email válido"},
		{FieldEmail, "ana@example.com", ""},
		{FieldMessage, "hola", "El mensaje debe tener al menos 10 caracteres"},
		{FieldMessage, "hola, necesito ayuda", ""},
		{"phone", "  ", RequiredMessage},
	}
	for _, tc := range cases {
		if got := ValidateField(tc.field, tc.value); got != tc.want {
			t.Errorf("ValidateField(%q, %q) = %q, want %q", tc.field, tc.value, got, tc.want)
		}
	}
}

type memStore struct {
	saved []Message
	err   error
}

func (m *memStore) SaveMessage(msg Message) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, msg)
	return nil
}

func validForm() Form {
	return Form{Name: " Ana ", Email: "ana@example.com", Message: "Quisiera agendar una cita"}
}

func TestServiceSubmit(t *testing.T) {
	store := &memStore{}
	svc := NewService(SimulatedSubmitter{}, store)

	m, errs, err := svc.Submit(context.Background(), validForm())
	if err != nil || errs != nil {
		t.Fatalf("Submit: errs=%v err=%v", errs, err)
	}
	if m.ID == "" || m.Name != "Ana" {
		t.Errorf("message = %+v", m)
	}
	if len(store.saved) != 1 {
		t.Errorf("saved %d messages, want 1", len(store.saved))
	}
}

func TestServiceSubmitInvalid(t *testing.T) {
	store := &memStore{}
	svc := NewService(SimulatedSubmitter{}, store)

	_, errs, err := svc.Submit(context.Background(), Form{Name: "Ana"})
	if err != nil {
		t.Fatalf("invalid input should not be an error: %v", err)
	}
	if len(errs) != 2 {
		t.Errorf("errs = %v", errs)
	}
	if len(store.saved) != 0 {
		t.Error("invalid form should not be stored")
	}
}

func TestServiceSubmitFailure(t *testing.T) {
	store := &memStore{}
	svc := NewService(SimulatedSubmitter{Fail: func(Message) bool { return true }}, store)

	_, _, err := svc.Submit(context.Background(), validForm())
	if !errors.Is(err, ErrSubmitFailed) {
		t.Fatalf("err = %v, want ErrSubmitFailed", err)
	}
	if len(store.saved) != 0 {
		t.Error("failed submission should not be stored")
	}

	svc = NewService(SimulatedSubmitter{}, &memStore{err: errors.New("disk full")})
	if _, _, err := svc.Submit(context.Background(), validForm()); !errors.Is(err, ErrSubmitFailed) {
		t.Errorf("store error = %v, want ErrSubmitFailed", err)
	}
}

func TestSimulatedSubmitterDelayAndCancel(t *testing.T) {
	s := SimulatedSubmitter{Delay: 30 * time.Millisecond}
	start := time.Now()
	if err := s.Submit(context.Background(), Message{}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if time.Since(start) < 30*time.Millisecond {
		t.Error("submit returned before the delay")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Delay = time.Hour
	if err := s.Submit(ctx, Message{}); !errors.Is(err, ErrSubmitFailed) {
		t.Errorf("cancelled submit = %v, want ErrSubmitFailed", err)
	}
}
