package util

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// GetAbsolutePath resolves a path relative to the current working directory.
func GetAbsolutePath(relativePath string) string {
	if filepath.IsAbs(relativePath) {
		return relativePath
	}
	root, err := os.Getwd()
	if err != nil {
		return relativePath
	}
	return filepath.Join(root, relativePath)
}

// ValueString renders a scalar record value as text. Sources hand back a
// mix of strings, []byte (MySQL), numbers (BigQuery, Excel) and nil for
// absent values; NaN floats render as "nan" to match the upstream export.
func ValueString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		if math.IsNaN(t) {
			return "nan"
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", t)
	}
}
