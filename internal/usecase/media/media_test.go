package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/wb-go/wbf/zlog"

	"media-cms/internal/domain"
	"media-cms/internal/usecase/encoder"
)

func testLogger() *zlog.Zerolog {
	zlog.Init()
	return &zlog.Logger
}

// fakeFileRepo records puts and deletes and can fail puts whose path
// ends with failSuffix.
type fakeFileRepo struct {
	mu         sync.Mutex
	failSuffix string
	puts       []string
	deletes    []string
}

func (f *fakeFileRepo) Put(ctx context.Context, path string, data io.Reader, size int64, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSuffix != "" && strings.HasSuffix(path, f.failSuffix) {
		return "", errors.New("storage unavailable")
	}
	f.puts = append(f.puts, path)
	return "http://cdn.local/" + path, nil
}

func (f *fakeFileRepo) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deletes = append(f.deletes, path)
	return nil
}

func (f *fakeFileRepo) snapshot() (puts, deletes []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.puts...), append([]string(nil), f.deletes...)
}

type fakeAssetRepo struct {
	createErr  error
	created    []*domain.MediaAsset
	stored     map[int64]*domain.MediaAsset
	lastLimit  int
	lastOffset int
}

func (f *fakeAssetRepo) CreateAsset(ctx context.Context, asset *domain.MediaAsset) error {
	if f.createErr != nil {
		return f.createErr
	}
	asset.ID = int64(len(f.created) + 1)
	f.created = append(f.created, asset)
	return nil
}

func (f *fakeAssetRepo) GetByID(ctx context.Context, id int64) (*domain.MediaAsset, error) {
	if asset, ok := f.stored[id]; ok {
		return asset, nil
	}
	return nil, errors.New("not found")
}

func (f *fakeAssetRepo) List(ctx context.Context, limit, offset int) ([]domain.MediaAsset, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	return nil, nil
}

func (f *fakeAssetRepo) Count(ctx context.Context) (int, error) {
	return len(f.created), nil
}

// fakeEncoder mirrors the matrix back as ready payloads.
type fakeEncoder struct {
	err error
}

func (f *fakeEncoder) Encode(ctx context.Context, source []byte, matrix domain.VariantMatrix) ([]domain.EncodedVariant, error) {
	if f.err != nil {
		return nil, f.err
	}
	variants := make([]domain.EncodedVariant, 0, len(matrix.Specs))
	for _, spec := range matrix.Specs {
		variants = append(variants, domain.EncodedVariant{
			Width:  spec.Width,
			Format: spec.Format,
			Native: []byte("native"),
			WebP:   []byte("webp"),
		})
	}
	return variants, nil
}

type fakeProducer struct {
	mu     sync.Mutex
	values [][]byte
}

func (f *fakeProducer) Send(ctx context.Context, key, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = append(f.values, value)
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func newTestUsecase(fileRepo *fakeFileRepo, repo *fakeAssetRepo, enc *fakeEncoder) *MediaUsecase {
	return NewMediaUsecase(repo, fileRepo, enc, nil, domain.DefaultWidths, "medias", testLogger())
}

func TestProcessUploadSuccess(t *testing.T) {
	fileRepo := &fakeFileRepo{}
	repo := &fakeAssetRepo{}
	uc := newTestUsecase(fileRepo, repo, &fakeEncoder{})

	asset, err := uc.ProcessUpload(context.Background(), bytes.NewReader([]byte("image bytes")), "photo.jpg")
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}

	if asset.MediaType != "image/jpeg" {
		t.Errorf("media type = %q, want image/jpeg", asset.MediaType)
	}
	if len(asset.Files) != 8 {
		t.Fatalf("got %d files, want 8", len(asset.Files))
	}

	wantLabels := []string{"2000", "2000-webp", "1600", "1600-webp", "1200", "1200-webp", "800", "800-webp"}
	for i, f := range asset.Files {
		if f.Label != wantLabels[i] {
			t.Errorf("file %d label = %q, want %q", i, f.Label, wantLabels[i])
		}
	}

	if asset.URL != asset.Files[0].URL {
		t.Errorf("asset URL %q is not the first file's URL %q", asset.URL, asset.Files[0].URL)
	}

	pathPattern := regexp.MustCompile(`^medias/photo-[0-9a-f-]+@2000\.jpg$`)
	if !pathPattern.MatchString(asset.Files[0].StoragePath) {
		t.Errorf("first storage path %q does not match %v", asset.Files[0].StoragePath, pathPattern)
	}
	if !strings.HasSuffix(asset.Files[7].StoragePath, "@800.webp") {
		t.Errorf("last storage path = %q, want @800.webp suffix", asset.Files[7].StoragePath)
	}

	if len(repo.created) != 1 {
		t.Fatalf("CreateAsset called %d times, want 1", len(repo.created))
	}

	puts, deletes := fileRepo.snapshot()
	if len(puts) != 8 {
		t.Errorf("got %d puts, want 8", len(puts))
	}
	if len(deletes) != 0 {
		t.Errorf("got %d deletes, want 0", len(deletes))
	}
}

func TestProcessUploadPartialFailureRollsBack(t *testing.T) {
	fileRepo := &fakeFileRepo{failSuffix: "@1600.webp"}
	repo := &fakeAssetRepo{}
	uc := newTestUsecase(fileRepo, repo, &fakeEncoder{})

	asset, err := uc.ProcessUpload(context.Background(), bytes.NewReader([]byte("image bytes")), "photo.jpg")
	if !errors.Is(err, ErrUploadIncomplete) {
		t.Fatalf("want ErrUploadIncomplete, got %v", err)
	}
	if asset != nil {
		t.Fatal("expected no asset on an incomplete upload")
	}
	if len(repo.created) != 0 {
		t.Errorf("CreateAsset called %d times on a failed run", len(repo.created))
	}

	puts, deletes := fileRepo.snapshot()
	if len(puts) != 7 {
		t.Fatalf("got %d successful puts, want 7", len(puts))
	}
	if len(deletes) != 7 {
		t.Fatalf("got %d deletes, want 7", len(deletes))
	}

	sort.Strings(puts)
	sort.Strings(deletes)
	for i := range puts {
		if puts[i] != deletes[i] {
			t.Errorf("stored %q but rolled back %q", puts[i], deletes[i])
		}
	}
}

func TestProcessUploadRegistrationFailureKeepsArtifacts(t *testing.T) {
	fileRepo := &fakeFileRepo{}
	repo := &fakeAssetRepo{createErr: errors.New("connection refused")}
	uc := newTestUsecase(fileRepo, repo, &fakeEncoder{})

	_, err := uc.ProcessUpload(context.Background(), bytes.NewReader([]byte("image bytes")), "photo.jpg")

	var regErr *RegistrationError
	if !errors.As(err, &regErr) {
		t.Fatalf("want *RegistrationError, got %v", err)
	}
	if !strings.Contains(regErr.Error(), "failed to insert media") {
		t.Errorf("unexpected message %q", regErr.Error())
	}

	_, deletes := fileRepo.snapshot()
	if len(deletes) != 0 {
		t.Errorf("registration failure must not roll back, got %d deletes", len(deletes))
	}
}

func TestProcessUploadRejectsBadInput(t *testing.T) {
	fileRepo := &fakeFileRepo{}
	uc := newTestUsecase(fileRepo, &fakeAssetRepo{}, &fakeEncoder{})

	if _, err := uc.ProcessUpload(context.Background(), nil, "photo.jpg"); !errors.Is(err, ErrMissingData) {
		t.Errorf("nil reader: want ErrMissingData, got %v", err)
	}
	if _, err := uc.ProcessUpload(context.Background(), bytes.NewReader([]byte("x")), ""); !errors.Is(err, ErrMissingData) {
		t.Errorf("empty filename: want ErrMissingData, got %v", err)
	}
	if _, err := uc.ProcessUpload(context.Background(), bytes.NewReader(nil), "photo.jpg"); !errors.Is(err, ErrMissingData) {
		t.Errorf("empty body: want ErrMissingData, got %v", err)
	}
	if _, err := uc.ProcessUpload(context.Background(), bytes.NewReader([]byte("x")), "clip.gif"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("gif: want ErrUnsupportedFormat, got %v", err)
	}

	if puts, _ := fileRepo.snapshot(); len(puts) != 0 {
		t.Errorf("rejected inputs must not reach storage, got %d puts", len(puts))
	}
}

func TestProcessUploadEncodeFailure(t *testing.T) {
	fileRepo := &fakeFileRepo{}
	encErr := &encoder.EncodeError{Width: 1200, Format: domain.FormatJpeg, Err: errors.New("boom")}
	uc := newTestUsecase(fileRepo, &fakeAssetRepo{}, &fakeEncoder{err: encErr})

	_, err := uc.ProcessUpload(context.Background(), bytes.NewReader([]byte("image bytes")), "photo.jpg")

	var got *encoder.EncodeError
	if !errors.As(err, &got) || got.Width != 1200 {
		t.Fatalf("want the encoder's error back, got %v", err)
	}

	if puts, _ := fileRepo.snapshot(); len(puts) != 0 {
		t.Errorf("encode failure must not reach storage, got %d puts", len(puts))
	}
}

func TestProcessUploadPublishesEvent(t *testing.T) {
	producer := &fakeProducer{}
	uc := NewMediaUsecase(&fakeAssetRepo{}, &fakeFileRepo{}, &fakeEncoder{}, producer, domain.DefaultWidths, "medias", testLogger())

	if _, err := uc.ProcessUpload(context.Background(), bytes.NewReader([]byte("image bytes")), "photo.jpg"); err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}

	producer.mu.Lock()
	defer producer.mu.Unlock()
	if len(producer.values) != 1 {
		t.Fatalf("got %d events, want 1", len(producer.values))
	}

	var event domain.MediaCreatedEvent
	if err := json.Unmarshal(producer.values[0], &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.Event != domain.EventMediaCreated {
		t.Errorf("event name = %q, want %q", event.Event, domain.EventMediaCreated)
	}
	if event.FileCount != 8 {
		t.Errorf("event file count = %d, want 8", event.FileCount)
	}
}

func TestListMediaClampsPaging(t *testing.T) {
	repo := &fakeAssetRepo{}
	uc := newTestUsecase(&fakeFileRepo{}, repo, &fakeEncoder{})

	if _, _, err := uc.ListMedia(context.Background(), 0, -5); err != nil {
		t.Fatalf("ListMedia: %v", err)
	}
	if repo.lastLimit != 20 || repo.lastOffset != 0 {
		t.Errorf("got limit=%d offset=%d, want 20/0", repo.lastLimit, repo.lastOffset)
	}

	if _, _, err := uc.ListMedia(context.Background(), 500, 40); err != nil {
		t.Fatalf("ListMedia: %v", err)
	}
	if repo.lastLimit != 20 || repo.lastOffset != 40 {
		t.Errorf("got limit=%d offset=%d, want 20/40", repo.lastLimit, repo.lastOffset)
	}
}
