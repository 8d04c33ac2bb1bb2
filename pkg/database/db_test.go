package data_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"
	data "github.com/tauraamui/pixrecord/pkg/database"
	"github.com/tauraamui/pixrecord/pkg/database/dbconn"
)

var _ = Describe("Data", func() {
	var (
		fs      afero.Fs
		mock    dbconn.MockGormWrapper
		opened  []string
		resetFS func()
		resetUC func()
		resetDB func()
	)

	BeforeEach(func() {
		os.Unsetenv("PIXRECORD_DB")
		fs = afero.NewMemMapFs()
		mock = dbconn.Mock()
		opened = nil
		resetFS = data.OverloadFS(fs)
		resetUC = data.OverloadUC(func() (string, error) { return "/cache", nil })
		resetDB = data.OverloadOpenDBConnection(func(path string) (dbconn.GormWrapper, error) {
			opened = append(opened, path)
			return mock, nil
		})
	})

	AfterEach(func() {
		resetFS()
		resetUC()
		resetDB()
	})

	Context("Setup run against blank file system", func() {
		It("Should create full file path for DB and migrate it", func() {
			err := data.Setup()
			Expect(err).To(BeNil())

			expected := filepath.Join("/cache", "tauraamui", "pixrecord", "takes.db")
			_, err = fs.Stat(expected)
			Expect(err).To(BeNil())
			Expect(opened).To(Equal([]string{expected}))
			Expect(mock.Closed()).To(BeTrue())
		})

		It("Should refuse to overwrite an existing DB", func() {
			Expect(data.Setup()).To(BeNil())
			err := data.Setup()
			Expect(errors.Is(err, data.ErrDBAlreadyExists)).To(BeTrue())
		})
	})

	It("Should return error from setup due to path resolution failure", func() {
		reset := data.OverloadUC(func() (string, error) {
			return "", errors.New("test cache dir error")
		})
		defer reset()

		err := data.Setup()

		Expect(err).ToNot(BeNil())
		Expect(err.Error()).To(Equal("unable to resolve takes.db database file location: test cache dir error"))
	})

	It("Should prefer the PIXRECORD_DB env path", func() {
		os.Setenv("PIXRECORD_DB", "/elsewhere/mine.db")
		defer os.Unsetenv("PIXRECORD_DB")

		path, err := data.DefaultPath()
		Expect(err).To(BeNil())
		Expect(path).To(Equal("/elsewhere/mine.db"))
	})

	It("Should remove the DB file on destroy", func() {
		Expect(data.Setup()).To(BeNil())
		Expect(data.Destroy()).To(BeNil())

		_, err := fs.Stat(filepath.Join("/cache", "tauraamui", "pixrecord", "takes.db"))
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("Should wrap connection failures", func() {
		reset := data.OverloadOpenDBConnection(func(string) (dbconn.GormWrapper, error) {
			return nil, errors.New("locked")
		})
		defer reset()

		_, err := data.ConnectPath("/x.db")
		Expect(err).ToNot(BeNil())
		Expect(err.Error()).To(Equal("unable to open db connection: locked"))
	})
})
