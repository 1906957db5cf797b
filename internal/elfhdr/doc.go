// Package elfhdr decodes ELF identification, file headers, and the section
// and program header tables.
//
// The identification prefix is read first; its class selects the 32-bit
// or 64-bit record layout exactly once, and every multi-byte field is then
// decoded explicitly in the byte order the file declares, independent of
// the host's own order. Decoding is strictly sequential and never logs:
// errors are returned to the caller, which decides how to report them.
//
// Symbol tables, relocations, dynamic entries, and section contents are not
// interpreted.
package elfhdr
