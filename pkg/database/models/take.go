package models

import (
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	"gorm.io/gorm"
)

func init() {
	registerForAutomigration(&Take{})
	registerForAutomigration(&Frame{})
}

// Take is one recording session stored by the sqlite backend.
type Take struct {
	gorm.Model
	UUID     string `gorm:"uniqueIndex"`
	Name     string
	Codec    string
	Frames   int
	Finished bool
}

func (t *Take) BeforeCreate(tx *gorm.DB) error {
	if len(t.UUID) == 0 {
		t.UUID = uuid.NewString()
	}
	return nil
}

type Frame struct {
	gorm.Model
	TakeUUID string `gorm:"index"`
	Position int
	Width    int
	Height   int
	Encoding string
	Digest   string
	Data     []byte
}

func (f *Frame) BeforeCreate(tx *gorm.DB) error {
	f.Digest = Digest(f.Data)
	return nil
}

// Digest is the hex blake2b-256 sum of a stored frame payload.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
