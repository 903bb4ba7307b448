/*
Package xilcore provides the hardware intermediate representation and
mapping layer of an HLS toolchain: four-valued logic and bit-vector
primitives, a delta-cycle simulation kernel, transaction-verb primitives,
a disjoint-set resource allocator, and the registry types a XIL-to-
hardware mapper implements.

Functional units (the Branch Control Unit, the 2-to-1 multiplexer) live
in the fu subpackage; the mappers that bind XIL instructions to those
units live in xilmap.
*/
package xilcore
