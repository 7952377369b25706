package monster

import (
	"os"
	"testing"
)

var testCatalog *Catalog

func TestMain(m *testing.M) {
	testCatalog = DefaultCatalog()
	os.Exit(m.Run())
}
