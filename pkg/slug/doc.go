// Package slug turns listing names into URL path segments.
//
//	slug.Make("Bo's  Puppy!!")   // "bos-puppy"
//	slug.Make("Chloé")           // "chloe"
//	slug.Make("---")             // ""
//
// An empty result means the input had nothing usable; callers must treat
// it as invalid.
package slug
