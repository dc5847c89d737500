// Package component groups trait descriptors into classes and holds the
// current trait values of class instances.
//
// A Class may name a single parent whose traits it inherits. Inherited traits
// can be redeclared as long as the new type accepts every value of the
// inherited one. A Component is an instance of a Class: it starts with every
// trait at its default and changes only through Set, which validates the value
// and notifies observers.
package component
