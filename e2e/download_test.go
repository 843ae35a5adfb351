//go:build e2e

package e2e_test

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
)

const loggedInGH = `[ "$1 $2" = "auth token" ] || exit 3; echo "` + fakeToken + `"`

var _ = Describe("download", func() {
	BeforeEach(func() {
		resetRecorded()
	})

	Context("with an authenticated gh", func() {
		var e *env

		BeforeEach(func() {
			e = newEnv(loggedInGH)
		})

		It("downloads an asset ID to a file path", func() {
			session := e.run("download", assetID, "./image.png")

			Expect(session).To(gexec.Exit(0))
			Expect(session.Out).To(gbytes.Say("Downloading " + assetID + " to ./image.png"))
			Expect(session.Out).To(gbytes.Say("Successfully downloaded to ./image.png"))

			Expect(os.ReadFile(e.path("image.png"))).To(Equal([]byte(assetBytes)))
			Expect(recorded()).To(ConsistOf(
				"GET /user-attachments/assets/"+assetID+" token "+fakeToken,
				"GET /objects/"+assetID+"/screenshot.png token "+fakeToken,
			))
		})

		It("creates missing parent directories", func() {
			session := e.run("download", assetID, "nested/dir/asset.png")

			Expect(session).To(gexec.Exit(0))
			Expect(e.path("nested/dir/asset.png")).To(BeAnExistingFile())
		})

		It("overwrites an existing file with the same bytes", func() {
			Expect(os.WriteFile(e.path("image.png"), []byte("old content that is longer"), 0o644)).To(Succeed())

			Expect(e.run("download", assetID, "image.png")).To(gexec.Exit(0))
			Expect(e.run("download", assetID, "image.png")).To(gexec.Exit(0))

			Expect(os.ReadFile(e.path("image.png"))).To(Equal([]byte(assetBytes)))
		})

		It("names the file after the asset when the destination is a directory", func() {
			Expect(os.Mkdir(e.path("assets"), 0o755)).To(Succeed())

			session := e.run("download", assetID, "assets")

			Expect(session).To(gexec.Exit(0))
			Expect(e.path(filepath.Join("assets", assetID+".png"))).To(BeAnExistingFile())
			Expect(recorded()).To(ContainElement("HEAD /user-attachments/assets/" + assetID + " token " + fakeToken))
		})

		It("prints a JSON result record", func() {
			session := e.run("download", "-o", "json", assetID, "out.png")
			Expect(session).To(gexec.Exit(0))

			var res map[string]any
			Expect(json.Unmarshal(session.Out.Contents(), &res)).To(Succeed())
			Expect(res).To(HaveKeyWithValue("source", assetID))
			Expect(res).To(HaveKeyWithValue("kind", "id"))
			Expect(res).To(HaveKeyWithValue("bytes", BeNumerically("==", len(assetBytes))))
			Expect(res["path"]).To(HaveSuffix("out.png"))
			Expect(res).To(HaveKeyWithValue("checksum", sha256Of(assetBytes)))
		})

		It("accepts a matching --checksum", func() {
			session := e.run("download", "--checksum", sha256Of(assetBytes), assetID, "sum.png")

			Expect(session).To(gexec.Exit(0))
			Expect(e.path("sum.png")).To(BeAnExistingFile())
		})

		It("rejects a mismatching --checksum without writing the file", func() {
			session := e.run("download", "--checksum", "sha256:"+strings.Repeat("0", 64), assetID, "sum.png")

			Expect(session).To(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say("E204"))
			Expect(e.path("sum.png")).NotTo(BeAnExistingFile())
		})

		It("stays silent with --quiet", func() {
			session := e.run("download", "--quiet", assetID, "quiet.png")
			Expect(session).To(gexec.Exit(0))
			Expect(session.Out.Contents()).To(BeEmpty())
			Expect(e.path("quiet.png")).To(BeAnExistingFile())
		})

		DescribeTable("rejects unsafe input before any request",
			func(source, dest, code string) {
				session := e.run("download", source, dest)

				Expect(session).To(gexec.Exit(1))
				Expect(session.Err).To(gbytes.Say(`Error \[` + code + `\]`))
				Expect(recorded()).To(BeEmpty())
			},
			Entry("invalid asset ID", "invalid@id", "a.png", "E201"),
			Entry("non-GitHub URL", "https://example.com/file.jpg", "a.png", "E202"),
			Entry("path traversal", assetID, "../a.png", "E301"),
			Entry("system directory", assetID, "/etc/passwd", "E302"),
			Entry("blank file name", assetID, "   ", "E304"),
		)

		It("reports HTTP errors and leaves no file behind", func() {
			session := e.run("download", "abcd1234-5678-9012-3456-789012345678", "missing.png")

			Expect(session).To(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say(`Error \[E402\]: HTTP request failed with status: 404`))
			Expect(session.Out).To(gbytes.Say("Failed to download to "))
			Expect(e.path("missing.png")).NotTo(BeAnExistingFile())
		})

		It("prints machine-readable errors with --error-format json", func() {
			session := e.run("--error-format", "json", "download", "invalid@id", "a.png")
			Expect(session).To(gexec.Exit(1))

			var out map[string]any
			Expect(json.Unmarshal(session.Err.Contents(), &out)).To(Succeed())
			Expect(out).To(HaveKeyWithValue("got", "invalid@id"))
		})
	})

	Context("when gh is not logged in", func() {
		It("fails with the helper diagnostic", func() {
			e := newEnv(`echo "You are not logged into any GitHub hosts." >&2; exit 4`)

			session := e.run("download", assetID, "a.png")

			Expect(session).To(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say(`Error \[E102\]`))
			Expect(session.Err).To(gbytes.Say("not logged into any GitHub hosts"))
			Expect(recorded()).To(BeEmpty())
		})
	})

	Context("when gh prints no token", func() {
		It("fails with an empty-token error", func() {
			e := newEnv(`exit 0`)

			session := e.run("download", assetID, "a.png")

			Expect(session).To(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say(`Error \[E103\]`))
		})
	})

	Context("when gh is not installed", func() {
		It("fails with an unavailable-helper error", func() {
			e := newEnv(loggedInGH)

			session := e.run("download", "--gh-path", filepath.Join(GinkgoT().TempDir(), "no-gh"), assetID, "a.png")

			Expect(session).To(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say(`Error \[E101\]`))
		})
	})

	Context("when gh returns a token the server rejects", func() {
		It("fails with the HTTP status", func() {
			e := newEnv(`echo "gho_wrong"`)

			session := e.run("download", assetID, "a.png")

			Expect(session).To(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say(`HTTP request failed with status: 401`))
			Expect(e.path("a.png")).NotTo(BeAnExistingFile())
		})
	})
})

func sha256Of(s string) string {
	sum := sha256.Sum256([]byte(s))
	return "sha256:" + hex.EncodeToString(sum[:])
}
