package core

import (
	"testing"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/koek1/budget-app/internal/db"
)

// testBcryptCost keeps hashing fast in tests.
const testBcryptCost = 4

func newTestStore(t *testing.T) db.Store {
	t.Helper()
	return db.NewFileStore(afero.NewMemMapFs(), "/data", zap.NewNop())
}
