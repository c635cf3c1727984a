// Command fat32tool is a small command-line front end for mounting,
// browsing, and formatting FAT32 disk images. It is new relative to
// spec.md (§4.11), grounded on the teacher's cmd/main.go: an
// urfave/cli/v2 App whose Commands each call straight into the library
// packages, errors surfaced with log.Fatalf rather than a custom
// reporting layer.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/urfave/cli/v2"

	"github.com/embeddedfs/fat32/blockdev"
	"github.com/embeddedfs/fat32/directory"
	"github.com/embeddedfs/fat32/fatfmt"
	"github.com/embeddedfs/fat32/fsck"
	"github.com/embeddedfs/fat32/volume"
)

func main() {
	app := &cli.App{
		Usage: "Inspect and manipulate FAT32 disk images",
		Commands: []*cli.Command{
			lsCommand,
			catCommand,
			mkdirCommand,
			touchCommand,
			fsckCommand,
			formatCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fat32tool: %s", err)
	}
}

// csvRow is the gocsv-tagged projection of directory.Entry for `ls --csv`,
// grounded on the teacher's DiskGeometry rows in disks/disks.go.
type csvRow struct {
	Name  string `csv:"name"`
	Dir   bool   `csv:"is_dir"`
	Bytes int64  `csv:"size_bytes"`
}

func openImage(path string) (blockdev.Device, *os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	return blockdev.NewFileDevice(f), f, nil
}

func resolveDir(root *directory.Directory, pathSegments []string) (*directory.Directory, error) {
	dir := root
	for _, seg := range pathSegments {
		if seg == "" {
			continue
		}
		next, err := dir.OpenDir(seg)
		if err != nil {
			return nil, err
		}
		dir = next
	}
	return dir, nil
}

var lsCommand = &cli.Command{
	Name:      "ls",
	Usage:     "List a directory's contents",
	ArgsUsage: "IMAGE [PATH]",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "csv", Usage: "emit rows as CSV instead of a plain table"},
	},
	Action: func(c *cli.Context) error {
		device, f, err := openImage(c.Args().Get(0))
		if err != nil {
			return err
		}
		defer f.Close()

		v, err := volume.Mount(device)
		if err != nil {
			return err
		}

		dir, err := resolveDir(v.RootDir(), splitPath(c.Args().Get(1)))
		if err != nil {
			return err
		}

		entries, err := dir.List()
		if err != nil {
			return err
		}

		if c.Bool("csv") {
			rows := make([]*csvRow, len(entries))
			for i, e := range entries {
				rows[i] = &csvRow{Name: e.Name, Dir: e.IsDir, Bytes: e.SizeBytes}
			}
			out, err := gocsv.MarshalString(rows)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		}

		for _, e := range entries {
			kind := "file"
			if e.IsDir {
				kind = "dir"
			}
			fmt.Printf("%-4s %10d  %s\n", kind, e.SizeBytes, e.Name)
		}
		return nil
	},
}

var catCommand = &cli.Command{
	Name:      "cat",
	Usage:     "Print a file's contents to stdout",
	ArgsUsage: "IMAGE PATH",
	Action: func(c *cli.Context) error {
		device, f, err := openImage(c.Args().Get(0))
		if err != nil {
			return err
		}
		defer f.Close()

		v, err := volume.Mount(device)
		if err != nil {
			return err
		}

		segments := splitPath(c.Args().Get(1))
		if len(segments) == 0 {
			return fmt.Errorf("cat: PATH is required")
		}
		dir, err := resolveDir(v.RootDir(), segments[:len(segments)-1])
		if err != nil {
			return err
		}

		file, err := dir.OpenFile(segments[len(segments)-1])
		if err != nil {
			return err
		}

		buf := make([]byte, file.Length())
		n, err := file.Read(buf)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(buf[:n])
		return err
	},
}

var mkdirCommand = &cli.Command{
	Name:      "mkdir",
	Usage:     "Create a subdirectory",
	ArgsUsage: "IMAGE PARENT_PATH NAME",
	Action: func(c *cli.Context) error {
		return createEntry(c, true)
	},
}

var touchCommand = &cli.Command{
	Name:      "touch",
	Usage:     "Create an empty file",
	ArgsUsage: "IMAGE PARENT_PATH NAME",
	Action: func(c *cli.Context) error {
		return createEntry(c, false)
	},
}

func createEntry(c *cli.Context, isDir bool) error {
	device, f, err := openImage(c.Args().Get(0))
	if err != nil {
		return err
	}
	defer f.Close()

	v, err := volume.Mount(device)
	if err != nil {
		return err
	}

	dir, err := resolveDir(v.RootDir(), splitPath(c.Args().Get(1)))
	if err != nil {
		return err
	}

	name := c.Args().Get(2)
	if isDir {
		return dir.CreateDir(name)
	}
	return dir.CreateFile(name)
}

var fsckCommand = &cli.Command{
	Name:      "fsck",
	Usage:     "Check a volume for consistency violations",
	ArgsUsage: "IMAGE",
	Action: func(c *cli.Context) error {
		device, f, err := openImage(c.Args().Get(0))
		if err != nil {
			return err
		}
		defer f.Close()

		v, err := volume.Mount(device)
		if err != nil {
			return err
		}

		report := fsck.Check(v)
		if report.OK() {
			fmt.Println("ok")
			return nil
		}
		fmt.Println(report.Violations)
		return cli.Exit("volume failed consistency check", 1)
	},
}

var formatCommand = &cli.Command{
	Name:      "format",
	Usage:     "Write a blank FAT32 volume to an existing image file",
	ArgsUsage: "IMAGE",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "label", Value: "NO NAME"},
		&cli.StringFlag{Name: "geometry", Usage: "named media preset, e.g. usb-64m (overrides the image's actual size)"},
		&cli.Uint64Flag{Name: "sectors-per-cluster", Value: 8},
		&cli.UintFlag{Name: "num-fats", Value: 2},
	},
	Action: func(c *cli.Context) error {
		f, err := os.OpenFile(c.Args().Get(0), os.O_RDWR, 0)
		if err != nil {
			return err
		}
		defer f.Close()

		if slug := c.String("geometry"); slug != "" {
			opts, ok := fatfmt.GeometryPreset(slug, c.String("label"))
			if !ok {
				return fmt.Errorf("format: unknown geometry preset %q", slug)
			}
			return fatfmt.Format(blockdev.NewFileDevice(f), opts)
		}

		info, err := f.Stat()
		if err != nil {
			return err
		}
		totalSectors := uint32(info.Size() / blockdev.SectorSize)

		return fatfmt.Format(blockdev.NewFileDevice(f), fatfmt.Options{
			Label:             c.String("label"),
			TotalSectors:      totalSectors,
			SectorsPerCluster: uint8(c.Uint64("sectors-per-cluster")),
			ReservedSectors:   32,
			NumFATs:           uint8(c.Uint("num-fats")),
		})
	},
}

// splitPath splits a "/"-separated path into its components, discarding
// leading/trailing separators. An empty path yields no components, i.e.
// the directory itself.
func splitPath(p string) []string {
	var segments []string
	start := 0
	for i := 0; i <= len(p); i++ {
		if i == len(p) || p[i] == '/' {
			if i > start {
				segments = append(segments, p[start:i])
			}
			start = i + 1
		}
	}
	return segments
}
