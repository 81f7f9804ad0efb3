// Package config holds runtime configuration for the scraper: crawl targets,
// pacing, output paths, and the optional YAML config file with site
// overrides (extra blocklist entries, custom level indexes).
package config
