package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/isseis/go-elf-inspect/internal/color"
)

// Options selects which parts of a File WriteText prints.
type Options struct {
	Header   bool
	Sections bool
	Segments bool
	Palette  color.Palette
}

// AllParts reports whether no part was selected, in which case everything is
// printed.
func (o Options) AllParts() bool {
	return !o.Header && !o.Sections && !o.Segments
}

// WriteText prints f in the layout readelf uses for -h, -S and -l.
func WriteText(w io.Writer, f *File, opts Options) error {
	p := opts.Palette
	if p.Heading == nil {
		p = color.NewPalette(false)
	}
	all := opts.AllParts()
	addrWidth := 16
	if f.Ident.Class == "ELF32" {
		addrWidth = 8
	}

	ew := &errWriter{w: w}
	ew.printf("%s\n", p.Heading("File: "+f.Path))

	if all || opts.Header {
		ew.printf("\n%s\n", p.Heading("ELF Header:"))
		tw := tabwriter.NewWriter(ew, 12, 2, 2, ' ', 0)
		row := func(label, format string, args ...any) {
			fmt.Fprintf(tw, "  %s\t"+format+"\n", append([]any{p.Label(label + ":")}, args...)...)
		}
		row("Magic", "%s", f.Ident.Magic)
		row("Class", "%s", f.Ident.Class)
		row("Data", "%s", f.Ident.Data)
		row("Version", "%d", f.Ident.Version)
		row("OS/ABI", "%s", f.Ident.OSABI)
		row("ABI Version", "%d", f.Ident.ABIVersion)
		row("Host byte order", "%t", f.Ident.HostOrder)
		row("Type", "%s", f.Header.Type)
		row("Machine", "%s", f.Header.Machine)
		row("Version", "%#x", f.Header.Version)
		row("Entry point address", "%#x", f.Header.Entry)
		row("Start of program headers", "%d (bytes into file)", f.Header.Phoff)
		row("Start of section headers", "%d (bytes into file)", f.Header.Shoff)
		row("Flags", "%#x", f.Header.Flags)
		row("Size of this header", "%d (bytes)", f.Header.Ehsize)
		row("Size of program headers", "%d (bytes)", f.Header.Phentsize)
		row("Number of program headers", "%d", f.Header.Phnum)
		row("Size of section headers", "%d (bytes)", f.Header.Shentsize)
		row("Number of section headers", "%d", f.Header.Shnum)
		row("Section header string table index", "%d", f.Header.Shstrndx)
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if all || opts.Sections {
		ew.printf("\n%s\n", p.Heading("Section Headers:"))
		if len(f.Sections) == 0 {
			ew.printf("  There are no sections in this file.\n")
		} else {
			tw := tabwriter.NewWriter(ew, 0, 2, 2, ' ', 0)
			fmt.Fprintf(tw, "  [Nr]\tName\tType\tAddress\tOff\tSize\tES\tFlg\tLk\tInf\tAl\n")
			for _, s := range f.Sections {
				fmt.Fprintf(tw, "  [%2d]\t%s\t%s\t%0*x\t%06x\t%06x\t%02x\t%s\t%d\t%d\t%d\n",
					s.Index, s.Name, s.Type, addrWidth, s.Addr, s.Off, s.Size, s.Entsize,
					s.Flags, s.Link, s.Info, s.Addralign)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			ew.printf("%s\n", p.Muted("Key to Flags: W (write), A (alloc), X (execute), M (merge), S (strings), I (info),\n"+
				"  L (link order), O (extra OS processing required), G (group), T (TLS), C (compressed), x (unknown)"))
		}
	}

	if all || opts.Segments {
		ew.printf("\n%s\n", p.Heading("Program Headers:"))
		if len(f.Segments) == 0 {
			ew.printf("  There are no program headers in this file.\n")
		} else {
			tw := tabwriter.NewWriter(ew, 0, 2, 2, ' ', 0)
			fmt.Fprintf(tw, "  Type\tOffset\tVirtAddr\tPhysAddr\tFileSiz\tMemSiz\tFlg\tAlign\n")
			for _, s := range f.Segments {
				fmt.Fprintf(tw, "  %s\t0x%06x\t0x%0*x\t0x%0*x\t0x%06x\t0x%06x\t%s\t%#x\n",
					s.Type, s.Off, addrWidth, s.Vaddr, addrWidth, s.Paddr, s.Filesz, s.Memsz, s.Flags, s.Align)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
		}
		if f.Interpreter != "" {
			ew.printf("  [Requesting program interpreter: %s]\n", f.Interpreter)
		}
	}

	for _, warn := range f.Warnings {
		ew.printf("%s\n", p.Warning("warning: "+warn))
	}
	return ew.err
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(b)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e, format, args...)
}
