package logging_test

import (
	"bytes"
	"testing"

	"sp-depends/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logging.Setup(&buf, "warn", true))
	defer logrus.SetLevel(logrus.InfoLevel)

	logrus.Info("hidden")
	logrus.WithField("table", "Db.dbo.T").WithField("alias", "x").Warn("Table script not found")

	assert.Equal(t, "WARNING: Table script not found alias=x table=Db.dbo.T\n", buf.String())
}

func TestSetup_BadLevel(t *testing.T) {
	assert.Error(t, logging.Setup(&bytes.Buffer{}, "loud", true))
}
