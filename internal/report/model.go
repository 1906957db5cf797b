// Package report holds the presentation model of an inspected ELF file and
// writes it as readelf-style text or JSON.
package report

// File is everything reported about one input file.
type File struct {
	Path  string `json:"path"`
	Ident Ident  `json:"ident"`

	Header   Header    `json:"header"`
	Sections []Section `json:"sections"`
	Segments []Segment `json:"segments"`

	// Interpreter is the PT_INTERP path, if any.
	Interpreter string `json:"interpreter,omitempty"`

	// Warnings are non-fatal problems found while building the report.
	Warnings []string `json:"warnings,omitempty"`
}

// Ident describes the identification bytes.
type Ident struct {
	Magic      string `json:"magic"`
	Class      string `json:"class"`
	Data       string `json:"data"`
	Version    uint8  `json:"version"`
	OSABI      string `json:"os_abi"`
	ABIVersion uint8  `json:"abi_version"`
	// HostOrder reports whether the file's byte order matches this machine.
	HostOrder bool `json:"host_byte_order"`
}

// Header is the file header with enum fields rendered as names.
type Header struct {
	Type      string `json:"type"`
	Machine   string `json:"machine"`
	Version   uint32 `json:"version"`
	Entry     uint64 `json:"entry"`
	Phoff     uint64 `json:"phoff"`
	Shoff     uint64 `json:"shoff"`
	Flags     uint32 `json:"flags"`
	Ehsize    uint16 `json:"ehsize"`
	Phentsize uint16 `json:"phentsize"`
	Phnum     uint16 `json:"phnum"`
	Shentsize uint16 `json:"shentsize"`
	Shnum     uint16 `json:"shnum"`
	Shstrndx  uint16 `json:"shstrndx"`
}

// Section is one section header.
type Section struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Flags     string `json:"flags"`
	Addr      uint64 `json:"addr"`
	Off       uint64 `json:"offset"`
	Size      uint64 `json:"size"`
	Link      uint32 `json:"link"`
	Info      uint32 `json:"info"`
	Addralign uint64 `json:"addralign"`
	Entsize   uint64 `json:"entsize"`
}

// Segment is one program header.
type Segment struct {
	Index  int    `json:"index"`
	Type   string `json:"type"`
	Flags  string `json:"flags"`
	Off    uint64 `json:"offset"`
	Vaddr  uint64 `json:"vaddr"`
	Paddr  uint64 `json:"paddr"`
	Filesz uint64 `json:"filesz"`
	Memsz  uint64 `json:"memsz"`
	Align  uint64 `json:"align"`
}

// Result pairs an input path with its report or the error that prevented
// one.
type Result struct {
	Path string
	File *File
	Err  error
}
