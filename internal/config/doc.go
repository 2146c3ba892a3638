// Package config provides configuration structures and utilities for sitespider.
// It defines the main configuration options for crawling sites, downloading
// files, exporting URL sets, and report generation preferences.
package config
