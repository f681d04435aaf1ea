package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/valyala/bytebufferpool"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/rawbytedev/slice"
	"github.com/rawbytedev/slice/internal/digest"
	"github.com/rawbytedev/slice/internal/logger"
)

var errMissingFile = errors.New("missing FILE argument")

var regionFlags = []cli.Flag{
	&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "start reading at byte `N`"},
	&cli.IntFlag{Name: "length", Aliases: []string{"n"}, Value: -1, Usage: "read at most `N` bytes (-1 = to end)"},
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "slicetool",
		Usage: "inspect and fingerprint binary files",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Before: func(c *cli.Context) error {
			logger.SetVerbose(c.Bool("verbose"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "hash",
				Usage:     "fingerprint a region",
				ArgsUsage: "FILE",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "algo", Aliases: []string{"a"}, Value: "fnv64",
						Usage: "one of " + strings.Join(digest.Names(), ", ")},
				}, regionFlags...),
				Action: hashAction,
			},
			{
				Name:      "dump",
				Usage:     "print a region as hex rows or little-endian integers",
				ArgsUsage: "FILE",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "width", Aliases: []string{"w"}, Value: 1, Usage: "value width: 1, 2, 4 or 8"},
				}, regionFlags...),
				Action: dumpAction,
			},
			{
				Name:      "cat",
				Usage:     "copy a region to stdout",
				ArgsUsage: "FILE",
				Flags:     regionFlags,
				Action:    catAction,
			},
			{
				Name:      "text",
				Usage:     "decode a region as text",
				ArgsUsage: "FILE",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "charset", Aliases: []string{"c"}, Value: "utf-8", Usage: "WHATWG encoding label"},
				}, regionFlags...),
				Action: textAction,
			},
		},
	}
}

// openRegion maps --offset/--length onto an Input over FILE.
func openRegion(c *cli.Context) (*slice.Input, error) {
	if c.Args().Len() < 1 {
		return nil, errMissingFile
	}
	path := c.Args().First()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	in, err := slice.NewInputAt(slice.Wrap(raw), c.Int("offset"))
	if err != nil {
		return nil, fmt.Errorf("offset: %w", err)
	}
	if n := c.Int("length"); n >= 0 {
		view, err := in.ReadSlice(n)
		if err != nil {
			return nil, fmt.Errorf("length: %w", err)
		}
		in = slice.NewInput(view)
	}
	logger.Debugw("opened region", "file", path, "size", len(raw), "offset", c.Int("offset"), "length", in.Len())
	return in, nil
}

func hashAction(c *cli.Context) error {
	algo := c.String("algo")
	f, err := digest.Lookup(algo)
	if err != nil {
		return err
	}
	in, err := openRegion(c)
	if err != nil {
		return err
	}
	sum := f(in.Slice())
	if digest.Width(algo) == 32 {
		_, err = fmt.Fprintf(c.App.Writer, "%s %08x\n", algo, sum)
	} else {
		_, err = fmt.Fprintf(c.App.Writer, "%s %016x\n", algo, sum)
	}
	return err
}

func dumpAction(c *cli.Context) error {
	in, err := openRegion(c)
	if err != nil {
		return err
	}
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	switch w := c.Int("width"); w {
	case 1:
		dumpHex(bb, in)
	case 2, 4, 8:
		if err := dumpInts(bb, in, w); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported width %d", w)
	}
	_, err = bb.WriteTo(c.App.Writer)
	return err
}

func dumpHex(w io.Writer, in *slice.Input) {
	row := make([]byte, 16)
	for {
		off := in.Position()
		n, err := in.Read(row)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "%08x  % x\n", off, row[:n])
	}
}

func dumpInts(w io.Writer, in *slice.Input, width int) error {
	for in.Available() >= width {
		off := in.Position()
		var v int64
		switch width {
		case 2:
			x, err := in.ReadInt16()
			if err != nil {
				return err
			}
			v = int64(x)
		case 4:
			x, err := in.ReadInt32()
			if err != nil {
				return err
			}
			v = int64(x)
		default:
			x, err := in.ReadInt64()
			if err != nil {
				return err
			}
			v = x
		}
		fmt.Fprintf(w, "%08x  %d\n", off, v)
	}
	if in.IsReadable() {
		logger.Debugw("trailing bytes", "count", in.Available())
		fmt.Fprintf(w, "%08x  % x\n", in.Position(), in.Slice().Bytes())
	}
	return nil
}

func catAction(c *cli.Context) error {
	in, err := openRegion(c)
	if err != nil {
		return err
	}
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	if err := in.ReadBytesTo(bb, in.Available()); err != nil {
		return err
	}
	_, err = bb.WriteTo(c.App.Writer)
	return err
}

func textAction(c *cli.Context) error {
	enc, err := htmlindex.Get(c.String("charset"))
	if err != nil {
		return fmt.Errorf("charset %q: %w", c.String("charset"), err)
	}
	in, err := openRegion(c)
	if err != nil {
		return err
	}
	txt, err := in.Decode(enc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, txt)
	return err
}
