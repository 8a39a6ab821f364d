package main

import (
	"context"
	"io"

	"github.com/Jboschlagos/Emmet-Cloude/internal/config"
	ierrors "github.com/Jboschlagos/Emmet-Cloude/internal/errors"
	"github.com/Jboschlagos/Emmet-Cloude/pkg/snippets"
)

// openStore builds the snippet store selected by cfg.
func openStore(ctx context.Context, cfg *config.Config) (snippets.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendDisk:
		store, err := snippets.NewDiskStore(cfg.StorePath())
		if err != nil {
			return nil, ierrors.New("E081").WithDetail("Opening " + cfg.StorePath()).Wrap(err)
		}
		return store, nil

	case config.BackendS3:
		s3cfg := cfg.Store.S3
		store, err := snippets.NewS3StoreFromConfig(ctx, snippets.S3Config{
			Bucket:          s3cfg.Bucket,
			Prefix:          s3cfg.Prefix,
			Region:          s3cfg.Region,
			Endpoint:        s3cfg.Endpoint,
			UsePathStyle:    s3cfg.UsePathStyle,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
		})
		if err != nil {
			return nil, ierrors.New("E081").WithDetail("Connecting to bucket " + s3cfg.Bucket).Wrap(err)
		}
		return store, nil

	default:
		return snippets.NewMemoryStore(), nil
	}
}

// openPersistentStore is openStore for one-shot commands, which warn when
// the memory backend would discard their work on exit.
func openPersistentStore(ctx context.Context, cfg *config.Config, stderr io.Writer) (snippets.Store, error) {
	if cfg.Store.Backend == config.BackendMemory || cfg.Store.Backend == "" {
		warn(stderr, "store.backend is memory, snippets are lost when the command exits")
		info(stderr, "Set store.backend to disk or s3 in emmet.json to keep them")
	}
	return openStore(ctx, cfg)
}
