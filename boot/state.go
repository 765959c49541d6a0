// Package boot runs once per page load, before any dashboard UI mounts, and
// ends in exactly one of two terminal states: Rendered or Redirected.
//
// The decision logic is a pure transition function over explicit states and
// events. Side effects (history replacement, storage writes, navigation) are
// returned as values and executed by Sequencer.
package boot

import (
	"fmt"

	"github.com/berhot/session-handoff/guard"
	"github.com/berhot/session-handoff/sessions"
)

type State int

const (
	StateInit State = iota
	StateDecodingFragment
	StateLoadingStored
	StateRendered
	StateRedirected
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateDecodingFragment:
		return "decoding_fragment"
	case StateLoadingStored:
		return "loading_stored"
	case StateRendered:
		return "rendered"
	case StateRedirected:
		return "redirected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether the page-load lifecycle has finished.
func (s State) Terminal() bool {
	return s == StateRendered || s == StateRedirected
}

// Reason explains a redirect to the sign-in surface.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonNoSession      Reason = "no_session"
	ReasonInvalidSession Reason = "invalid_session"
	ReasonNoProduct      Reason = "no_product"
	ReasonForeignSession Reason = "foreign_session"
	ReasonUnknownOrigin  Reason = "unknown_origin"
	ReasonNoConfig       Reason = "no_config"
)

// Event is an input to Transition.
type Event interface {
	isEvent()
}

// FragmentFound: the URL fragment has an auth key.
type FragmentFound struct{ Raw string }

// NoFragment: the URL fragment has no auth key.
type NoFragment struct{}

// FragmentDecoded: the handoff fragment held a usable session.
type FragmentDecoded struct{ Session sessions.AuthSession }

// FragmentInvalid: the handoff fragment could not be decoded.
type FragmentInvalid struct{}

// StoredLoaded: the session store returned a session.
type StoredLoaded struct{ Session sessions.AuthSession }

// StoredMissing: nothing usable in the session store.
type StoredMissing struct{}

func (FragmentFound) isEvent()   {}
func (NoFragment) isEvent()      {}
func (FragmentDecoded) isEvent() {}
func (FragmentInvalid) isEvent() {}
func (StoredLoaded) isEvent()    {}
func (StoredMissing) isEvent()   {}

// Effect is work the runner performs after a transition, in order.
type Effect interface {
	isEffect()
}

// StripFragment replaces the current history entry with the URL minus its
// fragment. It always precedes any other effect of the same transition.
type StripFragment struct{}

// Persist saves the session to this origin's store.
type Persist struct{ Session sessions.AuthSession }

// ClearStored removes this origin's stored session.
type ClearStored struct{}

// RedirectToOrigin navigates to another product's dashboard carrying the
// same session in a fresh fragment.
type RedirectToOrigin struct {
	Origin  sessions.OriginID
	Session sessions.AuthSession
}

// RedirectToSignIn navigates to the central sign-in surface.
type RedirectToSignIn struct {
	Reason  Reason
	Logout  bool
	Session *sessions.AuthSession // Context for pre-filling, may be nil
}

func (StripFragment) isEffect()    {}
func (Persist) isEffect()          {}
func (ClearStored) isEffect()      {}
func (RedirectToOrigin) isEffect() {}
func (RedirectToSignIn) isEffect() {}

// Env is what the transition function needs to know about the running app.
type Env struct {
	Origin sessions.OriginID

	// Resolvable reports whether a redirect to origin can be built. A nil
	// func treats every origin as resolvable.
	Resolvable func(sessions.OriginID) bool
}

func (e Env) resolvable(origin sessions.OriginID) bool {
	if e.Resolvable == nil {
		return true
	}
	return e.Resolvable(origin)
}

// InvalidTransitionError is returned for an event the state does not accept.
type InvalidTransitionError struct {
	State State
	Event Event
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("boot: event %T not valid in state %s", e.Event, e.State)
}

// Transition is the pure boot state machine. It never performs I/O.
func Transition(state State, event Event, env Env) (State, []Effect, error) {
	switch state {
	case StateInit:
		switch event.(type) {
		case FragmentFound:
			return StateDecodingFragment, nil, nil
		case NoFragment:
			return StateLoadingStored, nil, nil
		}

	case StateDecodingFragment:
		switch ev := event.(type) {
		case FragmentInvalid:
			// Never leak a broken fragment further; fall back to storage
			return StateLoadingStored, []Effect{StripFragment{}}, nil
		case FragmentDecoded:
			return decodedTransition(ev.Session, env)
		}

	case StateLoadingStored:
		switch ev := event.(type) {
		case StoredMissing:
			return StateRedirected, []Effect{RedirectToSignIn{Reason: ReasonNoSession}}, nil
		case StoredLoaded:
			return storedTransition(ev.Session, env)
		}
	}

	return state, nil, &InvalidTransitionError{State: state, Event: event}
}

func decodedTransition(session sessions.AuthSession, env Env) (State, []Effect, error) {
	effects := []Effect{StripFragment{}}

	switch {
	case guard.IsAuthorized(&session, env.Origin):
		return StateRendered, append(effects, Persist{Session: session}), nil

	case session.PosProduct == nil:
		return StateRedirected, append(effects, RedirectToSignIn{
			Reason:  ReasonNoProduct,
			Session: &session,
		}), nil

	case !env.resolvable(session.PosProduct.Origin):
		return StateRedirected, append(effects, RedirectToSignIn{
			Reason:  ReasonUnknownOrigin,
			Session: &session,
		}), nil

	default:
		return StateRedirected, append(effects, RedirectToOrigin{
			Origin:  session.PosProduct.Origin,
			Session: session,
		}), nil
	}
}

// storedTransition decides on a session loaded from this origin's storage.
// A stored session without a user or access token is cleared as well as
// redirected, so junk does not linger for the next page load.
func storedTransition(session sessions.AuthSession, env Env) (State, []Effect, error) {
	switch {
	case !session.Usable():
		return StateRedirected, []Effect{
			ClearStored{},
			RedirectToSignIn{Reason: ReasonInvalidSession},
		}, nil

	case !guard.IsAuthorized(&session, env.Origin):
		// A stale or foreign session must not linger on this origin
		return StateRedirected, []Effect{
			ClearStored{},
			RedirectToSignIn{Reason: ReasonForeignSession, Logout: true, Session: &session},
		}, nil

	default:
		return StateRendered, nil, nil
	}
}
