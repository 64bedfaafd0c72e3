// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakerewards/api/utils"
	"github.com/vechain/stakerewards/builtin/staking"
	"github.com/vechain/stakerewards/runtime"
	"github.com/vechain/stakerewards/thor"
)

const envPrefix = "STAKERD_"

var (
	defaultContract = thor.BytesToAddress([]byte("staking"))
	defaultToken    = thor.BytesToAddress([]byte("token"))
)

// Config is the node configuration file.
type Config struct {
	Staking struct {
		Contract       thor.Address `yaml:"contract"`
		Admin          thor.Address `yaml:"admin"`
		RewardLifetime uint64       `yaml:"reward_lifetime"`
		FixedAPR       uint64       `yaml:"fixed_apr"`
		MaxStakable    string       `yaml:"max_stakable"`
	} `yaml:"staking"`
	Token struct {
		Address thor.Address `yaml:"address"`
		Symbol  string       `yaml:"symbol"`
	} `yaml:"token"`
	Genesis []GenesisAccount `yaml:"genesis"`
}

// GenesisAccount is a token balance minted when the state is created.
type GenesisAccount struct {
	Address thor.Address `yaml:"address"`
	Amount  string       `yaml:"amount"`
}

// load overlays the YAML file at path on cfg. A missing file leaves cfg unchanged.
func (cfg *Config) load(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "read config")
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return errors.Wrap(err, "parse config")
		}
	}
	return nil
}

// envLookup returns a lookup over the process environment backed by the
// optional dotenv file. Process variables take precedence.
func envLookup(envFile string) (func(string) (string, bool), error) {
	fileEnv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		if err != nil && !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrap(err, "read env file")
		}
		if m != nil {
			fileEnv = m
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}, nil
}

// applyEnv overlays STAKERD_* variables on cfg.
func (cfg *Config) applyEnv(lookup func(string) (string, bool)) error {
	addrs := map[string]*thor.Address{
		"CONTRACT": &cfg.Staking.Contract,
		"ADMIN":    &cfg.Staking.Admin,
		"TOKEN":    &cfg.Token.Address,
	}
	for name, dst := range addrs {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			addr, err := thor.ParseAddress(v)
			if err != nil {
				return errors.WithMessage(err, envPrefix+name)
			}
			*dst = addr
		}
	}
	nums := map[string]*uint64{
		"REWARD_LIFETIME": &cfg.Staking.RewardLifetime,
		"FIXED_APR":       &cfg.Staking.FixedAPR,
	}
	for name, dst := range nums {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return errors.Wrap(err, envPrefix+name)
			}
			*dst = n
		}
	}
	if v, ok := lookup(envPrefix + "MAX_STAKABLE"); ok && v != "" {
		cfg.Staking.MaxStakable = v
	}
	if v, ok := lookup(envPrefix + "TOKEN_SYMBOL"); ok && v != "" {
		cfg.Token.Symbol = v
	}
	return nil
}

// runtimeConfig fills defaults and converts cfg for the runtime.
func (cfg *Config) runtimeConfig() (*runtime.Config, error) {
	contract := cfg.Staking.Contract
	if contract.IsZero() {
		contract = defaultContract
	}
	params := staking.DefaultParams(contract, cfg.Staking.Admin)
	if cfg.Staking.RewardLifetime != 0 {
		params.RewardLifetime = cfg.Staking.RewardLifetime
	}
	if cfg.Staking.FixedAPR != 0 {
		params.FixedAPR = cfg.Staking.FixedAPR
	}
	if cfg.Staking.MaxStakable != "" {
		v, err := utils.ParseAmount(cfg.Staking.MaxStakable)
		if err != nil {
			return nil, errors.WithMessage(err, "max_stakable")
		}
		params.MaxStakable = v
	}
	if err := params.Validate(); err != nil {
		return nil, errors.WithMessage(err, "staking")
	}

	tokenAddr := cfg.Token.Address
	if tokenAddr.IsZero() {
		tokenAddr = defaultToken
	}
	symbol := cfg.Token.Symbol
	if symbol == "" {
		symbol = "STK"
	}

	genesis := make([]runtime.Allocation, 0, len(cfg.Genesis))
	for i, alloc := range cfg.Genesis {
		amount, err := utils.ParseAmount(alloc.Amount)
		if err != nil {
			return nil, errors.WithMessagef(err, "genesis[%d]", i)
		}
		if !thor.IsValidAmount(amount) {
			return nil, errors.Errorf("genesis[%d]: amount exceeds 128 bits", i)
		}
		genesis = append(genesis, runtime.Allocation{Address: alloc.Address, Amount: amount})
	}

	return &runtime.Config{
		Params:      params,
		Token:       tokenAddr,
		TokenSymbol: symbol,
		Genesis:     genesis,
	}, nil
}

// soloAccounts are the funded accounts of a solo node. The first one administers the contract.
func soloAccounts() []thor.Address {
	accounts := make([]thor.Address, 10)
	for i := range accounts {
		accounts[i] = thor.BytesToAddress(thor.Keccak256([]byte("stakerd solo account"), []byte{byte(i)}).Bytes())
	}
	return accounts
}

// soloBalance is one million tokens with 18 decimals.
var soloBalance = new(uint256.Int).Mul(uint256.NewInt(1_000_000), uint256.NewInt(1e18))

// soloConfig returns a config for a dev node with every solo account funded.
func soloConfig() *Config {
	cfg := &Config{}
	accounts := soloAccounts()
	cfg.Staking.Admin = accounts[0]
	for _, acc := range accounts {
		cfg.Genesis = append(cfg.Genesis, GenesisAccount{Address: acc, Amount: soloBalance.Dec()})
	}
	return cfg
}
