package config_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/sarchlab/iloc/config"
	"github.com/sarchlab/iloc/lexer"
	"github.com/sarchlab/iloc/util"
)

var _ = Describe("Config", func() {
	It("should have valid defaults", func() {
		c := config.Default()

		Expect(c.Validate()).To(Succeed())
		Expect(c.BlockSize).To(Equal(lexer.DefaultBlockSize))
		Expect(c.StrictLiterals).To(BeFalse())
		Expect(c.Lint).To(BeTrue())
	})

	It("should keep defaults for missing keys", func() {
		c, err := config.Parse([]byte("strict_literals: true\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(c.StrictLiterals).To(BeTrue())
		Expect(c.BlockSize).To(Equal(lexer.DefaultBlockSize))
		Expect(c.LogFormat).To(Equal("text"))
	})

	It("should accept an empty document", func() {
		c, err := config.Parse(nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(config.Default()))
	})

	It("should parse every field", func() {
		c, err := config.Parse([]byte(`
block_size: 128
strict_literals: true
log_level: trace
log_format: json
lint: false
`))

		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(config.Config{
			BlockSize:      128,
			StrictLiterals: true,
			LogLevel:       "trace",
			LogFormat:      "json",
			Lint:           false,
		}))
	})

	DescribeTable("should reject invalid documents",
		func(doc, fragment string) {
			_, err := config.Parse([]byte(doc))

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(fragment))
		},
		Entry("small block", "block_size: 8\n", "block_size 8"),
		Entry("large block", "block_size: 2000000\n", "block_size 2000000"),
		Entry("level", "log_level: loud\n", "log_level"),
		Entry("format", "log_format: xml\n", "log_format"),
		Entry("unknown key", "colour: red\n", "colour"),
		Entry("bad type", "lint: maybe\n", "decode config"),
	)

	DescribeTable("should map log levels",
		func(name string, level slog.Level) {
			c := config.Default()
			c.LogLevel = name

			got, err := c.Level()
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(level))
		},
		Entry("trace", "trace", util.LevelTrace),
		Entry("debug", "debug", slog.LevelDebug),
		Entry("info", "INFO", slog.LevelInfo),
		Entry("warn", "warn", slog.LevelWarn),
		Entry("error", "error", slog.LevelError),
	)

	Context("when loading a file", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
		})

		It("should load a valid file", func() {
			path := filepath.Join(dir, "iloc.yaml")
			Expect(os.WriteFile(path, []byte("block_size: 64\n"), 0o644)).To(Succeed())

			c, err := config.Load(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(c.BlockSize).To(Equal(64))
		})

		It("should name the file in validation errors", func() {
			path := filepath.Join(dir, "bad.yaml")
			Expect(os.WriteFile(path, []byte("log_format: xml\n"), 0o644)).To(Succeed())

			_, err := config.Load(path)

			Expect(err).To(MatchError(ContainSubstring("bad.yaml")))
		})

		It("should fail on a missing file", func() {
			_, err := config.Load(filepath.Join(dir, "missing.yaml"))

			Expect(err).To(MatchError(ContainSubstring("read config")))
			Expect(os.IsNotExist(errors.Cause(err))).To(BeTrue())
		})
	})

	Context("when building a logger", func() {
		It("should write text at the configured level", func() {
			var buf bytes.Buffer
			c := config.Default()
			c.LogLevel = "warn"

			logger := c.NewLogger(&buf)
			logger.Info("hidden")
			logger.Warn("shown", "line", 3)

			Expect(buf.String()).NotTo(ContainSubstring("hidden"))
			Expect(buf.String()).To(ContainSubstring("level=WARN msg=shown line=3"))
		})

		It("should name the trace level", func() {
			var buf bytes.Buffer
			c := config.Default()
			c.LogLevel = "trace"
			c.LogFormat = "json"

			logger := c.NewLogger(&buf)
			logger.Log(context.Background(), util.LevelTrace, "stage")

			Expect(buf.String()).To(ContainSubstring(`"level":"TRACE"`))
			Expect(buf.String()).To(ContainSubstring(`"msg":"stage"`))
		})
	})
})
