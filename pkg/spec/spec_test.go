/*
Copyright © 2024 - 2025 diskplan authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package spec_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/workstation-tools/diskplan/pkg/spec"
)

func TestSpecSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Layout spec test suite")
}

var _ = Describe("Table", Label("spec", "table"), func() {
	Describe("partition types", func() {
		It("resolves friendly aliases to gptfdisk short codes", func() {
			for alias, code := range map[string]string{
				"efi":         "ef00",
				"esp":         "ef00",
				"xbootldr":    "ea00",
				"swap":        "8200",
				"linux":       "8300",
				"home":        "8302",
				"root":        "8304",
				"root-x86":    "8303",
				"root-x86_64": "8304",
				"root-arm64":  "8305",
				"root-arm32":  "8307",
				"root-ia64":   "830a",
				"nt":          "0700",
				"win":         "0700",
				"windows":     "0700",
			} {
				table, err := spec.NewTable(alias, "1G")
				Expect(err).To(BeNil())
				Expect(table.Type).To(Equal(code))
			}
		})
		It("passes through short hex codes", func() {
			table, err := spec.NewTable("ab00", "1G")
			Expect(err).To(BeNil())
			Expect(table.Type).To(Equal("ab00"))
		})
		It("passes through raw dashed GUIDs", func() {
			guid := "C12A7328-F81F-11D2-BA4B-00A0C93EC93B"
			table, err := spec.NewTable(guid, "1G")
			Expect(err).To(BeNil())
			Expect(table.Type).To(Equal(guid))
		})
		It("rejects non-hexadecimal types", func() {
			_, err := spec.NewTable("zz00", "1G")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("hexadecimal"))
		})
		It("rejects short codes that are not 4 digits", func() {
			_, err := spec.NewTable("ef0", "1G")
			Expect(err).To(HaveOccurred())
			_, err = spec.NewTable("ef000", "1G")
			Expect(err).To(HaveOccurred())
		})
		It("rejects GUIDs with misplaced dashes", func() {
			_, err := spec.NewTable("C12A732-8F81F-11D2-BA4B-00A0C93EC93B", "1G")
			Expect(err).To(HaveOccurred())
			_, err = spec.NewTable("C12A7328-F81F-11D2-BA4B00A0-C93EC93B", "1G")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("partition sizes", func() {
		It("parses bare byte counts", func() {
			table, err := spec.NewTable("linux", "1")
			Expect(err).To(BeNil())
			Expect(table.Size.Kind).To(Equal(spec.SizeBytes))
			Expect(table.Size.Bytes).To(Equal(uint64(1)))
		})
		It("parses binary unit suffixes as powers of 1024", func() {
			for suffix, bytes := range map[string]uint64{
				"K": 1024,
				"M": 1024 * 1024,
				"G": 1024 * 1024 * 1024,
				"T": 1024 * 1024 * 1024 * 1024,
			} {
				table, err := spec.NewTable("linux", "2"+suffix)
				Expect(err).To(BeNil())
				Expect(table.Size.Bytes).To(Equal(2 * bytes))
			}
		})
		It("parses decimal unit suffixes as powers of 1000", func() {
			for suffix, bytes := range map[string]uint64{
				"KB": 1000,
				"MB": 1000 * 1000,
				"GB": 1000 * 1000 * 1000,
				"TB": 1000 * 1000 * 1000 * 1000,
			} {
				table, err := spec.NewTable("linux", "2"+suffix)
				Expect(err).To(BeNil())
				Expect(table.Size.Bytes).To(Equal(2 * bytes))
			}
		})
		It("parses percentages as device fractions", func() {
			table, err := spec.NewTable("linux", "50%")
			Expect(err).To(BeNil())
			Expect(table.Size.Kind).To(Equal(spec.SizeFraction))
			Expect(table.Size.Fraction).To(Equal(0.5))
		})
		It("accepts the whole device as 100%", func() {
			table, err := spec.NewTable("linux", "100%")
			Expect(err).To(BeNil())
			Expect(table.Size.Fraction).To(Equal(1.0))
		})
		It("rejects percentages above 100", func() {
			_, err := spec.NewTable("linux", "150%")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("bigger than 100"))
		})
		It("parses the auto filler marker", func() {
			table, err := spec.NewTable("linux", "auto")
			Expect(err).To(BeNil())
			Expect(table.Size.Kind).To(Equal(spec.SizeAuto))
		})
		It("rejects zero sizes", func() {
			_, err := spec.NewTable("linux", "0")
			Expect(err).To(HaveOccurred())
			_, err = spec.NewTable("linux", "0G")
			Expect(err).To(HaveOccurred())
			_, err = spec.NewTable("linux", "0%")
			Expect(err).To(HaveOccurred())
		})
		It("rejects garbage size expressions", func() {
			for _, expr := range []string{"", "G", "-1G", "1.5G", "one", "1 G"} {
				_, err := spec.NewTable("linux", expr)
				Expect(err).To(HaveOccurred())
			}
		})
	})
})

var _ = Describe("Knowledge base", Label("spec", "knowledge"), func() {
	It("knows the tooling package of common filesystems", func() {
		Expect(spec.FilesystemPackage("ext4")).To(Equal("e2fsprogs"))
		Expect(spec.FilesystemPackage("swap")).To(Equal("util-linux"))
		Expect(spec.FilesystemPackage("vfat")).To(Equal("dosfstools"))
		Expect(spec.FilesystemPackage("ntfs")).To(Equal("ntfs-3g"))
	})
	It("falls back to the filesystem name for unknown filesystems", func() {
		Expect(spec.FilesystemPackage("bcachefs")).To(Equal("bcachefs"))
	})
})
