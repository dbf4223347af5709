package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	directPrefix   = "fencerun_direct_"
	codeFilePrefix = "fencerun_code_"
	codeExt        = ".py"
)

// tempFileName combines a millisecond timestamp with a short random suffix
// so concurrent runs in the same millisecond do not collide.
func tempFileName(prefix string) string {
	return fmt.Sprintf("%s%d_%s%s", prefix, time.Now().UnixMilli(), uuid.NewString()[:8], codeExt)
}

func writeTempFile(dir, prefix, code string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, tempFileName(prefix))
	if err := os.WriteFile(path, []byte(code), 0o600); err != nil {
		_ = os.Remove(path)
		return "", &TempFileError{Path: path, Err: err}
	}
	return path, nil
}
