package trademark

import (
	"context"

	"github.com/simp-lee/tmsearch/internal/domain"
)

// Notice is a transient message shown to the user.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Actions are the sidebar affordances that have no backing service yet.
type Actions interface {
	CheckRegistrability(ctx context.Context, name, description string) (Notice, error)
	Apply(ctx context.Context, trademarkName, country string) (Notice, error)
}

// StubActions answers every action with a notice and ErrNotImplemented.
// Nothing is sent anywhere.
type StubActions struct{}

// NewStubActions returns the stub Actions.
func NewStubActions() StubActions { return StubActions{} }

// CheckRegistrability returns the "checking" notice.
func (StubActions) CheckRegistrability(context.Context, string, string) (Notice, error) {
	return Notice{
		Title:       "Checking registrability",
		Description: "Analyzing trademark registrability for your query...",
	}, notImplemented("registrability check")
}

// Apply returns the application notice.
func (StubActions) Apply(context.Context, string, string) (Notice, error) {
	return Notice{
		Title:       "Trademark application",
		Description: "Online applications are not available yet.",
	}, notImplemented("trademark application")
}

func notImplemented(what string) error {
	return domain.NewAppError(domain.CodeNotImplemented, what+" is not implemented", nil)
}
