package db

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/koek1/budget-app/internal/config"
)

// NewFirestoreClient initializes the Firebase Admin SDK and returns its
// Firestore client. Credentials come from GOOGLE_APPLICATION_CREDENTIALS (a
// file path), FIREBASE_SERVICE_ACCOUNT_JSON_BASE64, or Application Default
// Credentials, in that order. FIRESTORE_EMULATOR_HOST is honoured by the SDK.
func NewFirestoreClient(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*firestore.Client, error) {
	if appConfig == nil {
		return nil, errors.New("NewFirestoreClient: appConfig cannot be nil")
	}

	var opts []option.ClientOption
	switch {
	case appConfig.GoogleApplicationCredentials != "":
		logger.Info("Initializing Firebase with credentials file",
			zap.String("path", appConfig.GoogleApplicationCredentials))
		if _, err := os.Stat(appConfig.GoogleApplicationCredentials); os.IsNotExist(err) {
			// ADC may still succeed, so this is not fatal.
			logger.Warn("Credentials file in GOOGLE_APPLICATION_CREDENTIALS does not exist",
				zap.String("path", appConfig.GoogleApplicationCredentials))
		}
		opts = append(opts, option.WithCredentialsFile(appConfig.GoogleApplicationCredentials))
	case appConfig.FirebaseServiceAccountJSONBase64 != "":
		logger.Info("Initializing Firebase with Base64 encoded service account JSON")
		decodedJSON, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decodedJSON))
	default:
		logger.Info("Initializing Firebase using Application Default Credentials (ADC)")
	}

	var firebaseAppConfig *firebase.Config
	if appConfig.FirebaseProjectID != "" {
		firebaseAppConfig = &firebase.Config{ProjectID: appConfig.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, firebaseAppConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}
	logger.Info("Firestore client initialized", zap.String("projectID", appConfig.FirebaseProjectID))
	return client, nil
}

// FirestoreStore implements Store on top of Cloud Firestore. Each record is a
// document whose ID is the record id; the id is also kept as a field so that
// criteria on it can run as queries.
type FirestoreStore struct {
	client *firestore.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewFirestoreStore wraps an initialized Firestore client.
func NewFirestoreStore(client *firestore.Client, logger *zap.Logger) *FirestoreStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FirestoreStore{
		client: client,
		logger: logger.Named("firestore_store"),
		now:    time.Now,
	}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func decodeSnapshot(doc *firestore.DocumentSnapshot) (Record, error) {
	rec, err := normalize(Record(doc.Data()))
	if err != nil {
		return nil, fmt.Errorf("failed to decode document %q: %w", doc.Ref.ID, err)
	}
	if rec == nil {
		rec = Record{}
	}
	rec[FieldID] = doc.Ref.ID
	return rec, nil
}

// query translates criteria into a Firestore query.
func (s *FirestoreStore) query(collection string, c Criteria) (firestore.Query, error) {
	q := s.client.Collection(collection).Query
	for _, term := range c {
		switch t := term.(type) {
		case equals:
			q = q.Where(t.field, "==", canonical(t.value))
		case between:
			q = q.Where(t.field, ">=", FormatTime(t.lower)).Where(t.field, "<=", FormatTime(t.upper))
		default:
			return q, fmt.Errorf("unsupported criterion %T on field %q", term, term.Field())
		}
	}
	return q, nil
}

// collect drains an iterator into records ordered by document ID, which is
// creation order for ids minted by NewID.
func collect(iter *firestore.DocumentIterator) ([]Record, []*firestore.DocumentRef, error) {
	defer iter.Stop()

	var snaps []*firestore.DocumentSnapshot
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		snaps = append(snaps, doc)
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Ref.ID < snaps[j].Ref.ID })

	records := make([]Record, 0, len(snaps))
	refs := make([]*firestore.DocumentRef, 0, len(snaps))
	for _, snap := range snaps {
		rec, err := decodeSnapshot(snap)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, rec)
		refs = append(refs, snap.Ref)
	}
	return records, refs, nil
}

func (s *FirestoreStore) FindByID(ctx context.Context, collection, id string) (Record, error) {
	if id == "" {
		return nil, nil
	}
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return decodeSnapshot(snap)
}

func (s *FirestoreStore) FindOne(ctx context.Context, collection string, c Criteria) (Record, error) {
	records, err := s.Find(ctx, collection, c)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

func (s *FirestoreStore) Find(ctx context.Context, collection string, c Criteria) ([]Record, error) {
	q, err := s.query(collection, c)
	if err != nil {
		return nil, err
	}
	records, _, err := collect(q.Documents(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	return records, nil
}

func (s *FirestoreStore) Create(ctx context.Context, collection string, fields Record) (Record, error) {
	for attempt := 0; attempt < 3; attempt++ {
		id, err := NewID()
		if err != nil {
			return nil, err
		}
		stamp := FormatTime(s.now())
		rec := sanitize(fields)
		rec[FieldID] = id
		rec[FieldCreatedAt] = stamp
		rec[FieldUpdatedAt] = stamp

		created, err := normalize(rec)
		if err != nil {
			return nil, err
		}
		_, err = s.client.Collection(collection).Doc(id).Create(ctx, map[string]interface{}(created))
		if err == nil {
			return created, nil
		}
		if status.Code(err) != codes.AlreadyExists {
			return nil, fmt.Errorf("failed to create document in %s: %w", collection, err)
		}
		s.logger.Warn("Record id collision, retrying", zap.String("collection", collection), zap.String("id", id))
	}
	return nil, fmt.Errorf("failed to create document in %s: id collisions exhausted retries", collection)
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields Record) (Record, error) {
	if id == "" {
		return nil, nil
	}
	ref := s.client.Collection(collection).Doc(id)
	patch := sanitize(fields)

	var updated Record
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		updated = nil
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		existing, err := decodeSnapshot(snap)
		if err != nil {
			return err
		}
		merged := existing.Clone()
		for k, v := range patch {
			merged[k] = v
		}
		merged[FieldUpdatedAt] = FormatTime(nextUpdatedAt(existing, s.now()))

		rec, err := normalize(merged)
		if err != nil {
			return err
		}
		if err := tx.Set(ref, map[string]interface{}(rec)); err != nil {
			return err
		}
		updated = rec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	return updated, nil
}

func (s *FirestoreStore) FindOneAndDelete(ctx context.Context, collection string, c Criteria) (Record, error) {
	q, err := s.query(collection, c)
	if err != nil {
		return nil, err
	}

	var deleted Record
	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		deleted = nil
		records, refs, err := collect(tx.Documents(q))
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.Delete(refs[0]); err != nil {
			return err
		}
		deleted = records[0]
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete from %s: %w", collection, err)
	}
	return deleted, nil
}

// Close closes the underlying Firestore client.
func (s *FirestoreStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
