package main

// Blank imports ensure theme init() registration runs for the CLI binary.
import (
	_ "github.com/alexisbeaulieu97/emuhud/internal/themes/ff7"
	_ "github.com/alexisbeaulieu97/emuhud/internal/themes/goldeneye"
	_ "github.com/alexisbeaulieu97/emuhud/internal/themes/psiv"
)
