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
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/twpayne/go-vfs/v4/vfst"

	"github.com/workstation-tools/diskplan/pkg/spec"
	"github.com/workstation-tools/diskplan/pkg/types"
)

var _ = Describe("Filesystem", Label("spec", "filesystem"), func() {
	var logger types.Logger
	var memLog *bytes.Buffer

	BeforeEach(func() {
		memLog = &bytes.Buffer{}
		logger = types.NewBufferLogger(memLog)
	})

	It("returns nil for an absent descriptor", func() {
		Expect(spec.NewFilesystem(logger, nil)).To(BeNil())
	})
	It("renders the known ext4 format command", func() {
		fs := spec.NewFilesystem(logger, &types.FilesystemDescriptor{Type: "ext4"})
		Expect(fs).NotTo(BeNil())
		cmd := fs.Evaluate("rootfs", "/dev/sda3")
		Expect(cmd).To(Equal("mkfs.ext4 -F -L rootfs -t ext4 -O " +
			"fast_commit,64bit,dir_index,ext_attr,extent,filetype,flex_bg," +
			"has_journal,inline_data,large_dir,large_file,sparse_super,metadata_csum /dev/sda3"))
		Expect(memLog.String()).To(BeEmpty())
	})
	It("renders the swap format command with its label", func() {
		fs := spec.NewFilesystem(logger, &types.FilesystemDescriptor{Type: "swap"})
		Expect(fs.Evaluate("swap", "/dev/sda2")).To(Equal("mkswap -L swap /dev/sda2"))
	})
	It("honors an explicit command template override", func() {
		fs := spec.NewFilesystem(logger, &types.FilesystemDescriptor{
			Type: "ext4",
			Exec: "mkfs.ext4 -q $PART",
		})
		Expect(fs.Evaluate("data", "/dev/sda1")).To(Equal("mkfs.ext4 -q /dev/sda1"))
	})
	It("falls back to a generic mkfs call for unknown filesystems", func() {
		fs := spec.NewFilesystem(logger, &types.FilesystemDescriptor{Type: "bcachefs"})
		Expect(fs.Evaluate("data", "/dev/sda1")).To(Equal("mkfs.bcachefs /dev/sda1"))
		Expect(memLog.String()).To(ContainSubstring("Unknown filesystem 'bcachefs'"))
	})
	It("does not warn on unknown filesystems with an explicit template", func() {
		fs := spec.NewFilesystem(logger, &types.FilesystemDescriptor{
			Type: "bcachefs",
			Exec: "bcachefs format $PART",
		})
		Expect(fs.Evaluate("data", "/dev/sda1")).To(Equal("bcachefs format /dev/sda1"))
		Expect(memLog.String()).To(BeEmpty())
	})
})

var _ = Describe("Mount", Label("spec", "mount"), func() {
	It("returns nil for an absent descriptor", func() {
		mnt, err := spec.NewMount("ext4", nil)
		Expect(err).To(BeNil())
		Expect(mnt).To(BeNil())
	})
	It("accepts a pathless mount for swap only", func() {
		mnt, err := spec.NewMount("swap", &types.MountDescriptor{Path: "none"})
		Expect(err).To(BeNil())
		Expect(mnt.Pathless()).To(BeTrue())
		Expect(mnt.Opts).To(Equal("defaults"))
		Expect(mnt.Evaluate("/mnt", "/dev/sda2")).To(Equal("swapon /dev/sda2"))

		_, err = spec.NewMount("ext4", &types.MountDescriptor{Path: "none"})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("non-swap"))
	})
	It("requires absolute mount paths", func() {
		_, err := spec.NewMount("ext4", &types.MountDescriptor{Path: "var/lib"})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("absolute"))
	})
	It("normalizes the mount path", func() {
		mnt, err := spec.NewMount("ext4", &types.MountDescriptor{Path: "/var//lib/"})
		Expect(err).To(BeNil())
		Expect(mnt.Path).To(Equal("/var/lib"))
	})
	It("defaults permissions to 755:root:root", func() {
		mnt, err := spec.NewMount("ext4", &types.MountDescriptor{Path: "/data"})
		Expect(err).To(BeNil())
		Expect(mnt.Access.String()).To(Equal("755:root:root"))
	})
	It("parses explicit permission expressions", func() {
		mnt, err := spec.NewMount("ext4", &types.MountDescriptor{Path: "/home", Mode: "750:alice:users"})
		Expect(err).To(BeNil())
		Expect(mnt.Access).To(Equal(spec.Access{Mode: "750", Owner: "alice", Group: "users"}))
	})
	It("rejects malformed permission expressions", func() {
		for _, mode := range []string{"75:root:root", "0755:root:root", "755:root", "rwx:root:root"} {
			_, err := spec.NewMount("ext4", &types.MountDescriptor{Path: "/home", Mode: mode})
			Expect(err).To(HaveOccurred())
		}
	})
	It("applies the generic option baseline to plain filesystems", func() {
		mnt, err := spec.NewMount("ext4", &types.MountDescriptor{Path: "/data"})
		Expect(err).To(BeNil())
		Expect(mnt.Opts).To(Equal("async,noatime,auto,dev,exec,noiversion,suid,rw,nouser"))
	})
	It("appends the filesystem specific additions to the baseline", func() {
		mnt, err := spec.NewMount("xfs", &types.MountDescriptor{Path: "/data"})
		Expect(err).To(BeNil())
		Expect(mnt.Opts).To(Equal("async,noatime,auto,dev,exec,noiversion,suid,rw,nouser,nodiscard,noquota"))
	})
	It("expands $OPTS in user provided options", func() {
		mnt, err := spec.NewMount("unknown", &types.MountDescriptor{Path: "/data", Opts: "$OPTS,discard"})
		Expect(err).To(BeNil())
		Expect(mnt.Opts).To(Equal("async,noatime,auto,dev,exec,noiversion,suid,rw,nouser,discard"))
	})
	It("replaces the options entirely when $OPTS is not referenced", func() {
		mnt, err := spec.NewMount("ext4", &types.MountDescriptor{Path: "/data", Opts: "ro,noexec"})
		Expect(err).To(BeNil())
		Expect(mnt.Opts).To(Equal("ro,noexec"))
	})
	It("mounts ntfs through the ntfs3 kernel driver", func() {
		mnt, err := spec.NewMount("ntfs", &types.MountDescriptor{Path: "/win"})
		Expect(err).To(BeNil())
		Expect(mnt.Evaluate("/mnt", "/dev/sda5")).To(
			Equal("mount -t ntfs3 -o async,noatime,auto,dev,exec,noiversion,suid,rw,nouser /dev/sda5 /mnt/win"))
	})
	It("resolves the destination by concatenating base and path", func() {
		mnt, err := spec.NewMount("ext4", &types.MountDescriptor{Path: "/"})
		Expect(err).To(BeNil())
		Expect(mnt.Destination("/mnt/target")).To(Equal("/mnt/target"))

		mnt, err = spec.NewMount("ext4", &types.MountDescriptor{Path: "/home"})
		Expect(err).To(BeNil())
		Expect(mnt.Destination("/")).To(Equal("/home"))
		Expect(mnt.Destination("/mnt/target")).To(Equal("/mnt/target/home"))
	})
})

var _ = Describe("Layout", Label("spec", "layout"), func() {
	var cfg *types.Config
	var memLog *bytes.Buffer
	var cleanup func()

	BeforeEach(func() {
		fs, c, err := vfst.NewTestFS(map[string]interface{}{"/mnt/target/.keep": ""})
		Expect(err).To(BeNil())
		cleanup = c
		memLog = &bytes.Buffer{}
		cfg = &types.Config{Logger: types.NewBufferLogger(memLog), Fs: fs}
	})
	AfterEach(func() { cleanup() })

	simpleLayout := func() []types.PartitionDescriptor {
		return []types.PartitionDescriptor{
			{
				Name:  "efi",
				Table: types.TableDescriptor{Type: "efi", Size: "512M"},
				FS:    &types.FilesystemDescriptor{Type: "vfat"},
				Mount: &types.MountDescriptor{Path: "/boot"},
			},
			{
				Name:  "rootfs",
				Table: types.TableDescriptor{Type: "root", Size: "auto"},
				FS:    &types.FilesystemDescriptor{Type: "ext4"},
				Mount: &types.MountDescriptor{Path: "/"},
			},
		}
	}

	It("validates a complete layout", func() {
		layout, err := spec.NewLayout(cfg, "/mnt/target", simpleLayout())
		Expect(err).To(BeNil())
		Expect(layout.Base).To(Equal("/mnt/target"))
		Expect(layout.Partitions).To(HaveLen(2))
		Expect(layout.Partitions[0].Table.Type).To(Equal("ef00"))
		Expect(layout.Partitions[1].Table.Size.Kind).To(Equal(spec.SizeAuto))
	})
	It("requires the base directory to be absolute", func() {
		_, err := spec.NewLayout(cfg, "mnt/target", simpleLayout())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("absolute"))
	})
	It("requires the base directory to exist", func() {
		_, err := spec.NewLayout(cfg, "/mnt/nope", simpleLayout())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("does not exist"))
	})
	It("requires the base to be a directory", func() {
		_, err := spec.NewLayout(cfg, "/mnt/target/.keep", simpleLayout())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("not a directory"))
	})
	It("rejects empty layouts", func() {
		_, err := spec.NewLayout(cfg, "/mnt/target", nil)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("at least one partition"))
	})
	It("rejects more than one auto filler", func() {
		descs := simpleLayout()
		descs[0].Table.Size = "auto"
		_, err := spec.NewLayout(cfg, "/mnt/target", descs)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("more than one partition with size=auto"))
	})
	It("aggregates errors from every invalid partition", func() {
		descs := simpleLayout()
		descs[0].Table.Type = "bogus"
		descs[1].Table.Size = "abc"
		_, err := spec.NewLayout(cfg, "/mnt/target", descs)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("'efi'"))
		Expect(err.Error()).To(ContainSubstring("'rootfs'"))
	})
	It("rejects unnamed partitions", func() {
		descs := simpleLayout()
		descs[0].Name = ""
		_, err := spec.NewLayout(cfg, "/mnt/target", descs)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("non-empty name"))
	})
	It("warns on long partition names", func() {
		descs := simpleLayout()
		descs[0].Name = "averylongpartitionname"
		_, err := spec.NewLayout(cfg, "/mnt/target", descs)
		Expect(err).To(BeNil())
		Expect(memLog.String()).To(ContainSubstring("under 10 characters"))
	})
	It("warns on partition names with special symbols", func() {
		descs := simpleLayout()
		descs[0].Name = "boot/efi"
		_, err := spec.NewLayout(cfg, "/mnt/target", descs)
		Expect(err).To(BeNil())
		Expect(memLog.String()).To(ContainSubstring("special symbols"))
	})
	It("defaults the mount stage of unformatted partitions to fs auto", func() {
		descs := []types.PartitionDescriptor{{
			Name:  "raw",
			Table: types.TableDescriptor{Type: "linux", Size: "1G"},
			Mount: &types.MountDescriptor{Path: "/data"},
		}}
		layout, err := spec.NewLayout(cfg, "/mnt/target", descs)
		Expect(err).To(BeNil())
		Expect(layout.Partitions[0].FS).To(BeNil())
		Expect(layout.Partitions[0].Mount.Evaluate("/mnt/target", "/dev/sda1")).To(
			Equal("mount -o async,noatime,auto,dev,exec,noiversion,suid,rw,nouser /dev/sda1 /mnt/target/data"))
	})
})
