// Package pool
// Author: momentics <momentics@gmail.com>
//
// Scratch memory for the I/O layer. Socket reads borrow a fixed-size buffer,
// copy out what they received and give the buffer back, so steady-state
// reading allocates only the chunks that are actually handed onwards.
package pool
