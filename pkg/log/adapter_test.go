package log

import (
	"bytes"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// The report store hands badger an entry tagged with its component name,
// so the adapter is exercised here the same way.
func newStoreEntry(out io.Writer) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(logger).WithField("component", "badgerdb")
}

func TestNewBadgerLogrusAdapter(t *testing.T) {
	adapter := NewBadgerLogrusAdapter(newStoreEntry(io.Discard))
	assert.NotNil(t, adapter)
}

func TestBadgerLogrusAdapter_ForwardsWithFields(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewBadgerLogrusAdapter(newStoreEntry(&buf))

	adapter.Errorf("compaction failed after %d retries", 3)
	adapter.Warningf("value log GC skipped")
	adapter.Infof("report store opened")
	adapter.Debugf("keys scanned: %d", 12)

	out := buf.String()
	assert.Contains(t, out, "compaction failed after 3 retries")
	assert.Contains(t, out, "value log GC skipped")
	assert.Contains(t, out, "report store opened")
	assert.Contains(t, out, "keys scanned: 12")
	assert.Contains(t, out, "component=badgerdb")
}
