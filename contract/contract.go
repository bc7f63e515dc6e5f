//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"channel-gate/domain"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// IBroker is the only way to reach the real-time broker.
// Every error it returns wraps errors.ErrBrokerFailure.
type IBroker interface {
	Publish(ctx context.Context, channel domain.ChannelName, event string, data any) error
	MintSessionToken(ctx context.Context, session string, identity domain.Identity) (domain.AuthToken, error)
	// MintChannelToken signs a plain private subscription when presence is nil,
	// a presence subscription carrying the member profile otherwise.
	MintChannelToken(ctx context.Context, session string, channel domain.ChannelName, presence *domain.PresenceInfo) (domain.ChannelToken, error)
}

// IIdentityDirectory maps an active session to the identity that authenticated it.
type IIdentityDirectory interface {
	// Get returns errors.ErrSessionUnknown when the session never authenticated or expired.
	Get(session string) (domain.Identity, error)
	Set(session string, identity domain.Identity) error
	List() ([]domain.Identity, error)
	Clear() error
}

// IScheduler reacts to channel lifecycle notifications.
type IScheduler interface {
	HandleEvent(ctx context.Context, name string, channel domain.ChannelName) error
	Active() []domain.ChannelName
	Close()
}
