// Package batch runs an operation against every registered template in turn
// and collects one Outcome per template into a Report. Templates are always
// processed sequentially because they share ports and databases.
package batch
