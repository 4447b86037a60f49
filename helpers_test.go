package jssec_test

import (
	"os"
	"path/filepath"
	"regexp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/securejs/jssec"
)

var _ = Describe("Helpers", func() {
	Context("when listing source paths", func() {
		var dir string
		var source string
		JustBeforeEach(func() {
			var err error
			dir, err = os.MkdirTemp("", "jssec")
			Expect(err).ShouldNot(HaveOccurred())
			f, err := os.CreateTemp(dir, "test*.js")
			Expect(err).ShouldNot(HaveOccurred())
			source = f.Name()
			Expect(f.Close()).ShouldNot(HaveOccurred())
		})
		AfterEach(func() {
			err := os.RemoveAll(dir)
			Expect(err).ShouldNot(HaveOccurred())
		})
		It("should return the root directory untouched", func() {
			paths, err := jssec.SourcePaths(dir, nil)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(paths).Should(Equal([]string{dir}))
		})
		It("should expand an ellipsis path to the sources below it", func() {
			paths, err := jssec.SourcePaths(dir+"/...", nil)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(paths).Should(Equal([]string{source}))
		})
		It("should exclude folder", func() {
			nested := dir + "/node_modules"
			err := os.Mkdir(nested, 0o755)
			Expect(err).ShouldNot(HaveOccurred())
			err = os.WriteFile(nested+"/test.js", []byte("var a = 1;"), 0o644)
			Expect(err).ShouldNot(HaveOccurred())
			exclude, err := regexp.Compile(`([\\/])?node_modules([\\/])?`)
			Expect(err).ShouldNot(HaveOccurred())
			paths, err := jssec.SourcePaths(dir+"/...", []*regexp.Regexp{exclude})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(paths).Should(Equal([]string{source}))
		})
		It("should be empty when folder does not exist", func() {
			nested := dir + "/test"
			paths, err := jssec.SourcePaths(nested+"/...", nil)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(paths).Should(BeEmpty())
		})
	})

	Context("when getting the root path", func() {
		It("should return the absolute path from relative path", func() {
			base := "test"
			cwd, err := os.Getwd()
			Expect(err).ShouldNot(HaveOccurred())
			root, err := jssec.RootPath(base)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(root).Should(Equal(filepath.Join(cwd, base)))
		})
		It("should return the absolute path from ellipsis path", func() {
			base := "test"
			cwd, err := os.Getwd()
			Expect(err).ShouldNot(HaveOccurred())
			root, err := jssec.RootPath(filepath.Join(base, "..."))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(root).Should(Equal(filepath.Join(cwd, base)))
		})
	})

	Context("when excluding the dirs", func() {
		It("should create a proper regexp", func() {
			r := jssec.ExcludedDirsRegExp([]string{"test"})
			Expect(len(r)).Should(Equal(1))
			match := r[0].MatchString("/home/js/project/test/pkg")
			Expect(match).Should(BeTrue())
			match = r[0].MatchString("/home/js/project/node_modules/pkg")
			Expect(match).Should(BeFalse())
		})

		It("should create no regexp when dir list is empty", func() {
			r := jssec.ExcludedDirsRegExp(nil)
			Expect(len(r)).Should(Equal(0))
			r = jssec.ExcludedDirsRegExp([]string{})
			Expect(len(r)).Should(Equal(0))
		})
	})

	Context("when identifying JavaScript files", func() {
		It("should accept the common source extensions", func() {
			Expect(jssec.IsJSFile("a.js")).Should(BeTrue())
			Expect(jssec.IsJSFile("a.mjs")).Should(BeTrue())
			Expect(jssec.IsJSFile("a.cjs")).Should(BeTrue())
		})
		It("should reject other files", func() {
			Expect(jssec.IsJSFile("a.ts")).Should(BeFalse())
			Expect(jssec.IsJSFile("a.json")).Should(BeFalse())
			Expect(jssec.IsJSFile("js")).Should(BeFalse())
		})
	})
})
