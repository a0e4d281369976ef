/*
Package minimax computes best uniform approximations of real functions at an arbitrary and explicit precision.

The remez package implements the Remez exchange algorithm for minimax polynomials and rational functions.
The utils/bignum package provides the arbitrary precision primitives it is built on (evaluation, linear
solver, Chebyshev interpolation and Padé approximation), the targets package a registry of functions to
approximate, the cache package an on-disk store of results, and cmd/remez a command line front end.
*/
package minimax
