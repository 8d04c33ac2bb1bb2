package data_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/tacusci/logging/v2"
)

func TestData(t *testing.T) {
	logging.CurrentLoggingLevel = logging.SilentLevel
	RegisterFailHandler(Fail)
	RunSpecs(t, "Data Suite")
}
