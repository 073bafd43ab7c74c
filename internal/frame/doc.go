// Package frame defines the pixel container shared by the executors and the
// stores that pass frames between pipeline stages by reference.
//
// A Frame is an H x W x C grid with interleaved components in BGR(A) order,
// either 8-bit (Pix) or 32-bit float (Float). A nil *Frame is the "no image"
// sentinel: stores return it for an empty reference and accept it without
// producing a reference.
//
// # Stores
//
//   - MemoryStore: in-process map, frames cloned in and out
//   - RedisStore: frames encoded with Marshal and kept under
//     "<prefix>:<owner>:<uuid>" keys with an optional TTL
//
// # Wire format
//
// Marshal writes a 16-byte header followed by the zstd-compressed component
// buffer. Unmarshal rejects buffers whose payload disagrees with the header.
package frame
