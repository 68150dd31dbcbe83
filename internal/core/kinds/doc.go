// Package kinds declares the three record kinds the import pipeline
// understands: customers, employees, and staff. Each kind registers its
// header aliases, validation rules, duplicate keys, toggle mappings, and
// payload shape with the core registry at init time; importing this
// package (usually blank-imported from main) makes the kinds available.
package kinds
