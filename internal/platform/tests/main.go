package tests

import (
	"context"

	"github.com/greenasset/tokend/internal/platform/db"
	"github.com/greenasset/tokend/internal/platform/logger"

	"go.uber.org/zap"
)

// Test holds the pieces most package tests need: a silent logging context
// and a database over in-memory storage.
type Test struct {
	Context  context.Context
	MasterDB *db.DB
}

// New sets up a test environment. Nothing touches the filesystem or the
// network.
func New() *Test {
	return &Test{
		Context:  NewSilentContext(),
		MasterDB: db.NewWithStorage(NewMockStorage()),
	}
}

// TearDown releases the test environment.
func (test *Test) TearDown() {
	if test.MasterDB != nil {
		test.MasterDB.Close()
	}
}

// NewSilentContext creates a Context with a no-op Logger.
func NewSilentContext() context.Context {
	ctx := logger.NewContext()
	l := zap.NewNop()

	return logger.ContextWithLogger(ctx, l)
}
