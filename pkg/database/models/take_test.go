package models_test

import (
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/pixrecord/pkg/database/models"
)

func TestTakeBeforeCreateAssignsUUIDOnce(t *testing.T) {
	is := is.New(t)
	take := models.Take{Name: "intro"}
	is.NoErr(take.BeforeCreate(nil))
	is.Equal(len(take.UUID), 36)

	id := take.UUID
	is.NoErr(take.BeforeCreate(nil))
	is.Equal(take.UUID, id)
}

func TestFrameBeforeCreateDigestsPayload(t *testing.T) {
	is := is.New(t)
	a := models.Frame{Data: []byte{1, 2, 3}}
	b := models.Frame{Data: []byte{1, 2, 4}}
	is.NoErr(a.BeforeCreate(nil))
	is.NoErr(b.BeforeCreate(nil))

	is.Equal(len(a.Digest), 64)
	is.True(a.Digest != b.Digest)
	is.Equal(a.Digest, models.Digest([]byte{1, 2, 3}))
}

type recordingMigrator struct {
	migrated []interface{}
}

func (m *recordingMigrator) AutoMigrate(dst ...interface{}) error {
	m.migrated = append(m.migrated, dst...)
	return nil
}

func TestAutoMigrateCoversTakesAndFrames(t *testing.T) {
	is := is.New(t)
	m := recordingMigrator{}
	is.NoErr(models.AutoMigrate(&m))
	is.Equal(len(m.migrated), 2)
	_, ok := m.migrated[0].(*models.Take)
	is.True(ok)
	_, ok = m.migrated[1].(*models.Frame)
	is.True(ok)
}
