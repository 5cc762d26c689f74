package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/koek1/budget-app/internal/config"
)

// New creates a Store based on appConfig.StoreBackend.
//
// Supported backends:
//
//	"file"      - JSON files in DATA_DIR (default)
//	"firestore" - Cloud Firestore in FIREBASE_PROJECT_ID
func New(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (Store, error) {
	switch backend := strings.ToLower(appConfig.StoreBackend); backend {
	case "file", "json", "":
		logger.Info("Using file store backend", zap.String("dataDir", appConfig.DataDir))
		return NewFileStore(afero.NewOsFs(), appConfig.DataDir, logger), nil
	case "firestore":
		client, err := NewFirestoreClient(ctx, appConfig, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Using firestore store backend", zap.String("projectID", appConfig.FirebaseProjectID))
		return NewFirestoreStore(client, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: file, firestore)", ErrUnknownBackend, backend)
	}
}
