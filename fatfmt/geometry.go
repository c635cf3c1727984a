package fatfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// geometryRow is a named, ready-made Options preset for a common storage
// media size, grounded on the teacher's DiskGeometry (disks/disks.go):
// the same gocsv-tagged-struct-plus-lookup-table shape, adapted from
// physical floppy-disk head/track/sector counts to the FAT32 quantities
// Options actually needs.
type geometryRow struct {
	Slug              string `csv:"slug"`
	Label             string `csv:"label"`
	TotalSectors      uint32 `csv:"total_sectors"`
	SectorsPerCluster uint8  `csv:"sectors_per_cluster"`
	NumFATs           uint8  `csv:"num_fats"`
}

// presetsCSV lists a handful of common media sizes large enough to host
// FAT32 (FAT32 is impractical below roughly 32 MiB in most implementations,
// so the classic 1.44 MiB floppy geometries the teacher's table carries
// don't carry over — these are hard-disk and flash-media sized instead).
const presetsCSV = `slug,label,total_sectors,sectors_per_cluster,num_fats
usb-64m,USB 64M,131072,1,2
usb-256m,USB 256M,524288,4,2
cf-512m,CF 512M,1048576,8,2
sd-2g,SD 2G,4194304,8,2
`

var geometryPresets map[string]geometryRow

func init() {
	geometryPresets = make(map[string]geometryRow)
	err := gocsv.UnmarshalToCallback(
		strings.NewReader(presetsCSV),
		func(row geometryRow) error {
			if _, exists := geometryPresets[row.Slug]; exists {
				return fmt.Errorf("fatfmt: duplicate geometry preset %q", row.Slug)
			}
			geometryPresets[row.Slug] = row
			return nil
		},
	)
	if err != nil && err != io.EOF {
		panic(err)
	}
}

// GeometryPreset looks up a named media preset and returns it as Options
// with the given volume label substituted in. ok is false if slug names
// no known preset.
func GeometryPreset(slug string, label string) (Options, bool) {
	row, ok := geometryPresets[slug]
	if !ok {
		return Options{}, false
	}
	return Options{
		Label:             label,
		TotalSectors:      row.TotalSectors,
		SectorsPerCluster: row.SectorsPerCluster,
		ReservedSectors:   32,
		NumFATs:           row.NumFATs,
	}, true
}
