package config

import "github.com/pantryshop/storefront/constants"

// DefaultConfigPath is the config file looked up when none is given.
const DefaultConfigPath = constants.ConfigFileName
