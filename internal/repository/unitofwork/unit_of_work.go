package unitofwork

import (
	"context"

	"arrow-be/internal/repository/contract"
)

// UnitOfWork groups the repositories of one request. Begin/Commit/Rollback
// bracket a transaction; without Begin every call runs on its own.
//
// Writes that drive live queries (pitches, conversations, messages) are not
// made inside a transaction: change keys are published when the statement
// runs, not when it commits.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	PitchRepository() contract.PitchRepository
	ConversationRepository() contract.ConversationRepository
	MessageRepository() contract.MessageRepository
}
