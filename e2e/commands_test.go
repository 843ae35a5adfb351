//go:build e2e

package e2e_test

import (
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
)

var _ = Describe("commands", func() {
	var e *env

	BeforeEach(func() {
		e = newEnv(loggedInGH)
	})

	It("prints version information", func() {
		session := e.run("version")
		Expect(session).To(gexec.Exit(0))
		Expect(session.Out).To(gbytes.Say("gh-asset version e2e"))

		session = e.run("version", "-o", "json")
		Expect(session).To(gexec.Exit(0))
		var info map[string]string
		Expect(json.Unmarshal(session.Out.Contents(), &info)).To(Succeed())
		Expect(info).To(HaveKeyWithValue("version", "e2e"))
	})

	It("generates shell completions", func() {
		for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
			session := e.run("completion", shell)
			Expect(session).To(gexec.Exit(0))
			Expect(session.Out.Contents()).NotTo(BeEmpty())
		}

		Expect(e.run("completion", "tcsh")).To(gexec.Exit(1))
	})

	It("writes and shows the config file", func() {
		dir := filepath.Join(GinkgoT().TempDir(), "fresh")

		session := e.run("--config-dir", dir, "config", "init")
		Expect(session).To(gexec.Exit(0))
		Expect(filepath.Join(dir, "config.cue")).To(BeAnExistingFile())

		Expect(e.run("--config-dir", dir, "config", "init")).To(gexec.Exit(1))

		session = e.run("--config-dir", dir, "config", "show")
		Expect(session).To(gexec.Exit(0))
		Expect(session.Out).To(gbytes.Say("mode: auto"))
	})

	It("rejects an invalid config file", func() {
		Expect(os.WriteFile(filepath.Join(e.configDir, "config.cue"),
			[]byte("package ghasset\n\nconfig: downloadTimeout: \"soon\"\n"), 0o644)).To(Succeed())

		session := e.run("download", assetID, "a.png")
		Expect(session).To(gexec.Exit(1))
		Expect(session.Err).To(gbytes.Say(`Error \[E203\]`))
		Expect(session.Err).To(gbytes.Say("downloadTimeout"))
	})

	It("requires exactly two arguments", func() {
		session := e.run("download", assetID)
		Expect(session).To(gexec.Exit(1))
		Expect(session.Err).To(gbytes.Say("accepts 2 arg"))
	})
})
