package attachment

import (
	"context"
	"encoding/hex"
	"errors"
	"os"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/crypto/blake2b"

	"github.com/go-petr/dream-bank/internal/domain"
	"github.com/go-petr/dream-bank/pkg/errorspkg"
)

// ErrEmptyAttachment indicates an attempt to store a file without content.
var ErrEmptyAttachment = errors.New("empty attachment")

// Store keeps attachment content and addresses it by key.
//
//go:generate mockgen -source store.go -destination store_mock.go -package attachment
type Store interface {
	Put(ctx context.Context, file *domain.Attachment, at time.Time) (string, error)
	Delete(ctx context.Context, key string) error
}

// FileStore keeps attachments in a file system under transactions/YYYY/MM/DD.
type FileStore struct {
	fs     afero.Fs
	suffix func() string
}

// NewFileStore returns FileStore writing to fs.
func NewFileStore(fs afero.Fs) *FileStore {
	return &FileStore{
		fs:     fs,
		suffix: uuid.NewString,
	}
}

// NewOsFileStore returns FileStore rooted at the given directory of the host file system.
func NewOsFileStore(root string) *FileStore {
	return NewFileStore(afero.NewBasePathFs(afero.NewOsFs(), root))
}

// maxPutAttempts bounds the retries after a key collision.
const maxPutAttempts = 3

// Key returns the key the file is stored under: the blake2b-256 digest of the
// content, the suffix and the extension of the content type.
func Key(file *domain.Attachment, at time.Time, suffix string) string {
	sum := blake2b.Sum256(file.Content)
	name := hex.EncodeToString(sum[:]) + "-" + suffix + extensions[ContentType(file)]

	return path.Join("transactions", at.UTC().Format("2006/01/02"), name)
}

// Put writes the file content under a new key and returns it.
// An existing file is never overwritten.
func (s *FileStore) Put(ctx context.Context, file *domain.Attachment, at time.Time) (string, error) {
	l := zerolog.Ctx(ctx)

	if file == nil || len(file.Content) == 0 {
		return "", ErrEmptyAttachment
	}

	for attempt := 0; attempt < maxPutAttempts; attempt++ {
		key := Key(file, at, s.suffix())

		if err := s.fs.MkdirAll(path.Dir(key), 0o755); err != nil {
			l.Error().Err(err).Msgf("MkdirAll(%v)", path.Dir(key))
			return "", errorspkg.ErrInternal
		}

		err := s.create(key, file.Content)
		if errors.Is(err, os.ErrExist) {
			l.Warn().Msgf("attachment key %v is taken", key)
			continue
		}

		if err != nil {
			l.Error().Err(err).Msgf("create(%v)", key)
			return "", errorspkg.ErrInternal
		}

		return key, nil
	}

	l.Error().Msgf("no free attachment key after %d attempts", maxPutAttempts)

	return "", errorspkg.ErrInternal
}

func (s *FileStore) create(key string, content []byte) error {
	f, err := s.fs.OpenFile(key, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		_ = s.fs.Remove(key)

		return err
	}

	return f.Close()
}

// Delete removes the stored file. Removing a missing key is not an error.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := s.fs.Remove(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		zerolog.Ctx(ctx).Error().Err(err).Msgf("Remove(%v)", key)
		return errorspkg.ErrInternal
	}

	return nil
}
