// Package firestore создает клиент Firestore через Firebase Admin SDK
package firestore

import (
	"context"
	"fmt"

	gcfirestore "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// Config параметры подключения к Firestore
type Config struct {
	ProjectID       string
	CredentialsFile string // пусто - Application Default Credentials
}

// NewClient инициализирует Firebase App и возвращает клиент Firestore
func NewClient(ctx context.Context, cfg Config) (*gcfirestore.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: init app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: get firestore client: %w", err)
	}

	return client, nil
}
