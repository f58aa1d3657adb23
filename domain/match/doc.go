// Package match runs incoming orders against the resting book under
// price-time priority and synthesizes trade records. The engine is the
// sole entry point for order flow: it sweeps the opposing side, asks
// the book to shrink or retire consumed orders, and rests any limit
// remainder. It never mutates book-owned state directly.
package match
