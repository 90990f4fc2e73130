// Package serialization stores named arrays in the .braid archive format.
//
//	Format Structure:
//	  [4 bytes: Magic "BRAD"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE)]
//	  [4 bytes: Reserved]
//	  [8 bytes: Header Size (uint64 LE)]
//	  [8 bytes: Data Size (uint64 LE)]
//	  [32 bytes: SHA-256 of the data section]
//	  [Header: JSON metadata]
//	  [Array data: raw little-endian bytes, 64-byte aligned]
//
// Only numeric arrays (float64, complex128) can be stored. Symbolic entries
// have to be substituted first.
package serialization
