package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sethvargo/go-retry"

	"github.com/dougiefresh49/gift-tracker/internal/config"
	"github.com/dougiefresh49/gift-tracker/internal/store"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Snapshotter produces a full export of the data set.
type Snapshotter interface {
	Export() (*store.Snapshot, error)
}

// State represents the backup manager state.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

// Status holds the current backup manager status.
type Status struct {
	State      State      `json:"state"`
	LastBackup *time.Time `json:"last_backup,omitempty"`
	Error      string     `json:"error,omitempty"`
	InProgress bool       `json:"in_progress"`
}

// StatusCallback is called whenever the backup state changes.
type StatusCallback func(Status)

// Manager uploads encrypted JSON snapshots to S3-compatible storage on a
// fixed interval.
type Manager struct {
	mu       sync.RWMutex
	cfg      config.BackupConfig
	status   Status
	callback StatusCallback

	snapshotter Snapshotter
	client      s3Client
	logger      *slog.Logger
	retryBase   time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a backup manager. It starts disabled unless the bucket
// and credentials are configured.
func NewManager(cfg config.BackupConfig, snapshotter Snapshotter, logger *slog.Logger, callback StatusCallback) *Manager {
	m := &Manager{
		cfg:         cfg,
		snapshotter: snapshotter,
		logger:      logger,
		callback:    callback,
		status:      Status{State: StateDisabled},
		retryBase:   2 * time.Second,
	}

	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" && cfg.Passphrase != "" {
		m.client = newS3Client(cfg)
		m.status.State = StateIdle
	}

	return m
}

func newS3Client(cfg config.BackupConfig) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Start begins the scheduled backup loop.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.status.State == StateDisabled {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	interval := m.cfg.Interval
	m.mu.Unlock()

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := m.RunNow(ctx); err != nil {
					m.logger.Error("scheduled backup failed", "error", err)
				}
			}
		}
	}()
}

// Stop gracefully stops the backup manager.
func (m *Manager) Stop() {
	m.mu.RLock()
	cancel := m.cancel
	done := m.done
	m.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Status returns the current backup status.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
	if m.callback != nil {
		m.callback(s)
	}
}

// RunNow takes a snapshot, encrypts it, and uploads it. The upload is retried
// with backoff; the snapshot and encryption are not.
func (m *Manager) RunNow(ctx context.Context) (string, error) {
	m.mu.RLock()
	client := m.client
	last := m.status.LastBackup
	m.mu.RUnlock()
	if client == nil {
		return "", fmt.Errorf("backup not configured")
	}

	m.setStatus(Status{State: StateRunning, LastBackup: last, InProgress: true})

	key, err := m.runBackup(ctx, client)
	if err != nil {
		m.setStatus(Status{State: StateError, LastBackup: last, Error: err.Error()})
		return "", err
	}

	now := time.Now().UTC()
	m.setStatus(Status{State: StateIdle, LastBackup: &now})
	return key, nil
}

func (m *Manager) runBackup(ctx context.Context, client s3Client) (string, error) {
	snap, err := m.snapshotter.Export()
	if err != nil {
		return "", fmt.Errorf("export snapshot: %w", err)
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	salt, err := GenerateSalt()
	if err != nil {
		return "", err
	}
	encrypted, err := Encrypt(payload, m.cfg.Passphrase, salt)
	if err != nil {
		return "", fmt.Errorf("encrypt snapshot: %w", err)
	}

	key := fmt.Sprintf("gift-tracker/backup-%s.json.enc", time.Now().UTC().Format("2006-01-02T15-04-05"))

	backoff := retry.WithMaxRetries(3, retry.NewExponential(m.retryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(m.cfg.Bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(encrypted),
		})
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("upload backup: %w", err)
	}

	m.logger.Info("backup uploaded", "key", key, "bytes", len(encrypted))
	return key, nil
}

// Restore downloads the named backup object and decrypts it, returning the
// snapshot JSON. Loading it back into the database is the caller's job.
func (m *Manager) Restore(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()
	if client == nil {
		return nil, fmt.Errorf("backup not configured")
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("download backup: %w", err)
	}
	defer out.Body.Close()

	encrypted, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}

	payload, err := Decrypt(encrypted, m.cfg.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("decrypt backup: %w", err)
	}
	return payload, nil
}
