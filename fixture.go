package twowaysql

import (
	"strings"

	"github.com/gofrs/uuid"
)

// NewFixtureName returns a short, collision-resistant identifier suitable
// for a throwaway schema/table name in an integration test, grounded on
// the same pattern the teacher's test fixtures used to name a disposable
// per-run database.
func NewFixtureName(prefix string) string {
	id := strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", "")
	return prefix + "_" + id[:12]
}
