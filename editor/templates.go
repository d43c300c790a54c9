package editor

import (
	"errors"
	"path/filepath"
	"strings"

	"solder/client"
	"solder/common"
	"solder/store"
)

func isNotFound(err error) bool {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.NotFound()
	}
	return errors.Is(err, store.ErrNotFound)
}

const rustContractTemplate = `#![no_std]
use soroban_sdk::{contract, contractimpl, Env};

#[contract]
pub struct Contract;

#[contractimpl]
impl Contract {
    pub fn hello(_env: Env) {
    }
}
`

const cargoManifestTemplate = `[package]
name = "contract"
version = "0.1.0"
edition = "2021"

[lib]
crate-type = ["cdylib"]

[dependencies]
soroban-sdk = "*"
`

// placeholderFor seeds a newly created file with a starting point matching
// its language.
func placeholderFor(path string) string {
	if filepath.Base(path) == "Cargo.toml" {
		return cargoManifestTemplate
	}
	switch common.InferLanguageFromPath(path) {
	case common.Rust:
		return rustContractTemplate
	case common.Markdown:
		name := strings.TrimSuffix(filepath.Base(path), ".md")
		return "# " + name + "\n"
	case common.Json:
		return "{}\n"
	case common.Toml, common.Yaml:
		return ""
	default:
		return ""
	}
}
