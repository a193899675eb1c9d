package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dougiefresh49/gift-tracker/internal/config"
	"github.com/dougiefresh49/gift-tracker/internal/model"
	"github.com/dougiefresh49/gift-tracker/internal/store"
)

type fakeS3 struct {
	putCalls int
	failures int
	lastKey  string
	lastBody []byte
}

func (f *fakeS3) PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putCalls++
	if f.putCalls <= f.failures {
		return nil, errors.New("transient upload failure")
	}
	f.lastKey = *input.Key
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.lastBody = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if *input.Key != f.lastKey {
		return nil, errors.New("no such key")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.lastBody))}, nil
}

type fakeSnapshotter struct {
	snap *store.Snapshot
	err  error
}

func (f *fakeSnapshotter) Export() (*store.Snapshot, error) {
	return f.snap, f.err
}

func testBackupConfig() config.BackupConfig {
	return config.BackupConfig{
		Bucket:     "backups",
		Region:     "auto",
		AccessKey:  "key",
		SecretKey:  "secret",
		Passphrase: "hunter2",
		Interval:   time.Hour,
	}
}

func testManager(t *testing.T, client s3Client, snap Snapshotter) *Manager {
	t.Helper()
	m := NewManager(testBackupConfig(), snap, slog.Default(), nil)
	m.client = client
	m.retryBase = time.Millisecond
	return m
}

func TestManagerDisabledWithoutCredentials(t *testing.T) {
	m := NewManager(config.BackupConfig{}, &fakeSnapshotter{}, slog.Default(), nil)
	if m.Status().State != StateDisabled {
		t.Errorf("state = %q, want disabled", m.Status().State)
	}
	if _, err := m.RunNow(context.Background()); err == nil {
		t.Error("expected RunNow to fail when disabled")
	}
}

func TestManagerRunNow(t *testing.T) {
	client := &fakeS3{}
	snap := &store.Snapshot{
		Profiles:   []model.Profile{{ID: "p1", Name: "Alice"}},
		ExportedAt: time.Now().UTC(),
	}
	m := testManager(t, client, &fakeSnapshotter{snap: snap})

	key, err := m.RunNow(context.Background())
	if err != nil {
		t.Fatalf("run now: %v", err)
	}
	if key == "" || key != client.lastKey {
		t.Errorf("key = %q, want the uploaded object key", key)
	}

	status := m.Status()
	if status.State != StateIdle {
		t.Errorf("state = %q, want idle", status.State)
	}
	if status.LastBackup == nil {
		t.Error("expected last_backup to be set")
	}

	// The payload decrypts back to the snapshot.
	plaintext, err := Decrypt(client.lastBody, "hunter2")
	if err != nil {
		t.Fatalf("decrypt uploaded payload: %v", err)
	}
	var got store.Snapshot
	if err := json.Unmarshal(plaintext, &got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if len(got.Profiles) != 1 || got.Profiles[0].Name != "Alice" {
		t.Errorf("decrypted snapshot = %+v, want alice", got.Profiles)
	}
	if bytes.Contains(client.lastBody, []byte("Alice")) {
		t.Error("uploaded payload should be encrypted")
	}
}

func TestManagerRestore(t *testing.T) {
	client := &fakeS3{}
	snap := &store.Snapshot{
		Profiles:   []model.Profile{{ID: "p1", Name: "Alice"}},
		ExportedAt: time.Now().UTC(),
	}
	m := testManager(t, client, &fakeSnapshotter{snap: snap})

	key, err := m.RunNow(context.Background())
	if err != nil {
		t.Fatalf("run now: %v", err)
	}

	payload, err := m.Restore(context.Background(), key)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	var got store.Snapshot
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("unmarshal restored payload: %v", err)
	}
	if len(got.Profiles) != 1 || got.Profiles[0].Name != "Alice" {
		t.Errorf("restored snapshot = %+v, want alice", got.Profiles)
	}

	if _, err := m.Restore(context.Background(), "gift-tracker/missing.json.enc"); err == nil {
		t.Error("expected error for a missing object")
	}
}

func TestManagerRestoreDisabled(t *testing.T) {
	m := NewManager(config.BackupConfig{}, &fakeSnapshotter{}, slog.Default(), nil)
	if _, err := m.Restore(context.Background(), "any"); err == nil {
		t.Error("expected restore to fail when disabled")
	}
}

func TestManagerRetriesUpload(t *testing.T) {
	client := &fakeS3{failures: 2}
	m := testManager(t, client, &fakeSnapshotter{snap: &store.Snapshot{}})

	if _, err := m.RunNow(context.Background()); err != nil {
		t.Fatalf("run now: %v", err)
	}
	if client.putCalls != 3 {
		t.Errorf("put calls = %d, want 3 (two failures then success)", client.putCalls)
	}
}

func TestManagerExportFailure(t *testing.T) {
	m := testManager(t, &fakeS3{}, &fakeSnapshotter{err: errors.New("db gone")})

	if _, err := m.RunNow(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	status := m.Status()
	if status.State != StateError {
		t.Errorf("state = %q, want error", status.State)
	}
	if status.Error == "" {
		t.Error("expected error message in status")
	}
}

func TestManagerStatusCallback(t *testing.T) {
	var states []State
	m := NewManager(testBackupConfig(), &fakeSnapshotter{snap: &store.Snapshot{}}, slog.Default(), func(s Status) {
		states = append(states, s.State)
	})
	m.client = &fakeS3{}

	if _, err := m.RunNow(context.Background()); err != nil {
		t.Fatalf("run now: %v", err)
	}
	if len(states) != 2 || states[0] != StateRunning || states[1] != StateIdle {
		t.Errorf("states = %v, want [running idle]", states)
	}
}
