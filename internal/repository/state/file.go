package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/easy-scpi/internal/config"
	domain "github.com/oshokin/easy-scpi/internal/domain/instrument"
	pb "github.com/oshokin/easy-scpi/internal/pb/v1"
)

// Repository defines persistence operations for the gateway state.
type Repository interface {
	Load(ctx context.Context) (*domain.State, error)
	Save(ctx context.Context, state *domain.State) error
}

// FileRepository persists the gateway state to a JSON file on disk.
// The file holds the same struct GetState returns, encoded with protojson.
type FileRepository struct {
	// path is the filesystem location of the JSON state file.
	path string
	// mu protects concurrent access to the state file.
	mu sync.Mutex
}

// ErrNotFound is returned when the state file does not exist yet.
var ErrNotFound = errors.New("state not found")

// stateDirPermissions applies to directories created for the state file.
const stateDirPermissions = 0o750

// stateMarshalOptions keeps the state file readable by people.
//
//nolint:gochecknoglobals // Immutable encoder settings.
var stateMarshalOptions = protojson.MarshalOptions{
	Multiline: true,
	Indent:    "  ",
}

// NewFileRepository returns a repository for the state file at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the state file location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the state written by Save.
func (r *FileRepository) Load(_ context.Context) (*domain.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read state file: %w", err)
	}

	var protoState structpb.Struct
	if err = protojson.Unmarshal(contents, &protoState); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	state, err := pb.StateFromStruct(&protoState)
	if err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	return state, nil
}

// Save replaces the state file. The JSON is written to a temporary file in
// the same directory and renamed over the old one, so a crash mid-write
// leaves the previous state readable. Missing parent directories are created.
func (r *FileRepository) Save(_ context.Context, state *domain.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := stateMarshalOptions.Marshal(pb.StateToStruct(state))
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err = os.MkdirAll(dir, stateDirPermissions); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary state file: %w", err)
	}

	tmpName := tmp.Name()

	_, err = tmp.Write(append(data, '\n'))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}

	if err == nil {
		err = os.Chmod(tmpName, config.DefaultFilePermissions)
	}

	if err == nil {
		err = os.Rename(tmpName, r.path)
	}

	if err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("write state file: %w", err)
	}

	return nil
}
