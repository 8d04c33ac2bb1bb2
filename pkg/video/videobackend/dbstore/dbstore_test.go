package dbstore_test

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tacusci/logging/v2"
	"github.com/tauraamui/pixrecord/pkg/database/dbconn"
	"github.com/tauraamui/pixrecord/pkg/database/models"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend/dbstore"
	"github.com/tauraamui/pixrecord/pkg/video/videoframe"
	"github.com/tauraamui/pixrecord/pkg/video/videoprops"
)

type DBStoreTestSuite struct {
	suite.Suite
	db           dbconn.MockGormWrapper
	paths        []string
	resetConnect func()
	backend      videobackend.Backend
}

func (suite *DBStoreTestSuite) SetupTest() {
	logging.CurrentLoggingLevel = logging.SilentLevel
	suite.db = dbconn.Mock()
	suite.paths = nil
	suite.resetConnect = dbstore.OverloadConnect(func(path string) (dbconn.GormWrapper, error) {
		suite.paths = append(suite.paths, path)
		return suite.db, nil
	})
	suite.backend = dbstore.New("/takes.db")
}

func (suite *DBStoreTestSuite) TearDownTest() {
	suite.resetConnect()
}

func (suite *DBStoreTestSuite) created() (takes []*models.Take, frames []*models.Frame) {
	for _, v := range suite.db.Created() {
		switch c := v.(type) {
		case *models.Take:
			takes = append(takes, c)
		case *models.Frame:
			frames = append(frames, c)
		}
	}
	return
}

func (suite *DBStoreTestSuite) TestCodecsAndRejection() {
	t := suite.T()
	assert.Equal(t, []string{"raw", "png"}, suite.backend.Codecs())
	assert.Equal(t, "PNG compressed rows", suite.backend.CodecDescription("png"))
	assert.True(t, errors.Is(suite.backend.SetCodec("h264"), videobackend.ErrRejected))
}

func (suite *DBStoreTestSuite) TestRawTakeStoresOneRowPerFrame() {
	t := suite.T()
	require.NoError(t, suite.backend.Start("intro", videoprops.New()))
	require.Equal(t, []string{"/takes.db"}, suite.paths)

	for i := 0; i < 3; i++ {
		require.NoError(t, suite.backend.Write(videoframe.New(2, 2)))
	}
	require.NoError(t, suite.backend.Stop())

	takes, frames := suite.created()
	require.Len(t, takes, 1)
	assert.Equal(t, "intro", takes[0].Name)
	assert.Equal(t, "raw", takes[0].Codec)
	require.Len(t, frames, 3)
	for i, f := range frames {
		assert.Equal(t, i, f.Position)
		assert.Equal(t, "raw", f.Encoding)
		assert.Len(t, f.Data, 16)
	}
	assert.Equal(t, []interface{}{map[string]interface{}{"frames": 3, "finished": true}}, suite.db.Updated())
}

func (suite *DBStoreTestSuite) TestPngTakeStoresDecodableRows() {
	t := suite.T()
	require.NoError(t, suite.backend.SetCodec("png"))
	require.NoError(t, suite.backend.Start("intro", nil))
	require.NoError(t, suite.backend.Write(videoframe.New(3, 2)))

	_, frames := suite.created()
	require.Len(t, frames, 1)
	img, err := png.Decode(bytes.NewReader(frames[0].Data))
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
}

func (suite *DBStoreTestSuite) TestWriteBeforeStartFails() {
	err := suite.backend.Write(videoframe.New(1, 1))
	assert.True(suite.T(), errors.Is(err, videobackend.ErrNotStarted))
}

func (suite *DBStoreTestSuite) TestFailedInsertIsWriteFailure() {
	t := suite.T()
	require.NoError(t, suite.backend.Start("intro", nil))
	suite.db.SetError(errors.New("disk I/O error"))
	err := suite.backend.Write(videoframe.New(1, 1))
	assert.True(t, errors.Is(err, videobackend.ErrWriteFailed))
}

func (suite *DBStoreTestSuite) TestConnectFailureRejectsStart() {
	reset := dbstore.OverloadConnect(func(string) (dbconn.GormWrapper, error) {
		return nil, errors.New("no such dir")
	})
	defer reset()

	err := dbstore.New("").Start("intro", nil)
	assert.True(suite.T(), errors.Is(err, videobackend.ErrRejected))
}

func (suite *DBStoreTestSuite) TestCloseFinishesTakeAndClosesDB() {
	t := suite.T()
	require.NoError(t, suite.backend.Start("intro", nil))
	closer, ok := suite.backend.(interface{ Close() error })
	require.True(t, ok)
	require.NoError(t, closer.Close())
	assert.True(t, suite.db.Closed())
	assert.Len(t, suite.db.Updated(), 1)
}

func TestDBStoreTestSuite(t *testing.T) {
	suite.Run(t, &DBStoreTestSuite{})
}
