// Command pp compresses and decompresses files in the PP container
// format.
//
// Usage:
//
//	pp [-level n] file            compress file to file.pp
//	pp -d file.pp                 restore the original file
//	pp -stat file.pp              print the container header
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/middleout/pp"
)

var (
	decompress = flag.Bool("d", false, "decompress instead of compress")
	level      = flag.Int("level", pp.DefaultLevel, "compression level (1-9)")
	output     = flag.String("o", "", "output file (default: input with .pp added or removed)")
	stat       = flag.Bool("stat", false, "print container header fields and exit")
	verbose    = flag.Bool("v", false, "report progress")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pp [-d] [-level n] [-o out] [-stat] file")
		os.Exit(2)
	}
	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "pp:", err)
		os.Exit(1)
	}
}

func run(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if *stat {
		h, err := pp.Stat(data)
		if err != nil {
			return err
		}
		fmt.Printf("version %d.%d  level %d  mode %s  type %s  %d -> %d bytes  checksum %04x\n",
			h.VersionMajor, h.VersionMinor, h.Level, h.Mode, h.FileType,
			h.UncompressedSize, h.CompressedSize, h.Checksum)
		return nil
	}

	var progress pp.Progress
	if *verbose {
		progress = func(stage pp.Stage, percent int, _ string) {
			fmt.Fprintf(os.Stderr, "\r%-10s %3d%%", stage, percent)
			if percent == 100 {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	if *decompress {
		d := pp.Decompressor{Progress: progress}
		out, err := d.Decompress(data)
		if err != nil {
			return err
		}
		return os.WriteFile(outPath(path, true), out, 0o644)
	}

	c := pp.Compressor{Level: *level, Progress: progress}
	out, err := c.Compress(data)
	if err != nil {
		return err
	}
	dst := outPath(path, false)
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return err
	}
	fmt.Printf("%s: %d -> %d bytes (%.1f%%)\n", dst, len(data), len(out),
		float64(len(out))*100/float64(len(data)))
	return nil
}

func outPath(in string, decompress bool) string {
	if *output != "" {
		return *output
	}
	if decompress {
		if strings.HasSuffix(in, ".pp") {
			return strings.TrimSuffix(in, ".pp")
		}
		return in + ".out"
	}
	return in + ".pp"
}
