/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	spotifyauth "github.com/zmb3/spotify/v2/auth"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ademuri/spotify-history-tools/internal/spotifetch"
)

var cfgFile string
var spotifyClientID string
var spotifyClientSecret string
var redirectURL string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spotify-history-tools",
	Short: "Performs analysis on Spotify streaming history exports",
	Long: `Reads extended streaming history exports (folders of JSON files) and
produces play-count rankings, platform breakdowns, playlist reconciliation
counts, and distribution metrics. Also includes playlist maintenance
commands built on the Spotify Web API.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.spotify-history-tools.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&spotifyClientID, "client_id", "", "", "Spotify application client ID")
	viper.BindPFlag("client_id", rootCmd.PersistentFlags().Lookup("client_id"))

	rootCmd.PersistentFlags().StringVarP(
		&spotifyClientSecret, "client_secret", "", "", "Spotify application client secret")
	viper.BindPFlag("client_secret", rootCmd.PersistentFlags().Lookup("client_secret"))

	rootCmd.PersistentFlags().StringVar(
		&redirectURL, "redirect_url", "http://localhost:8080/callback", "OAuth redirect URL for user authorization")
	viper.BindPFlag("redirect_url", rootCmd.PersistentFlags().Lookup("redirect_url"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// The Python scripts this replaces loaded credentials from .env; keep
	// honoring that. Absence is fine.
	godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".spotify-history-tools" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".spotify-history-tools")
	}

	viper.BindEnv("client_id", "SPOTIFY_ID")
	viper.BindEnv("client_secret", "SPOTIFY_SECRET")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

func spotifyCredentials() (id, secret string, err error) {
	id = viper.GetString("client_id")
	secret = viper.GetString("client_secret")
	if id == "" || secret == "" {
		err = fmt.Errorf("missing Spotify credentials - set client_id and client_secret flags, config values, or SPOTIFY_ID / SPOTIFY_SECRET")
	}
	return
}

// readOnlyClient builds a client with app-only credentials, enough for
// public catalog reads.
func readOnlyClient(ctx context.Context) (*spotifetch.Client, error) {
	id, secret, err := spotifyCredentials()
	if err != nil {
		return nil, err
	}
	return spotifetch.NewReadOnly(ctx, id, secret), nil
}

// authorizedClient runs the user-facing OAuth flow for commands that read
// private playlists or mutate playlists.
func authorizedClient(ctx context.Context, scopes ...string) (*spotifetch.Client, error) {
	id, secret, err := spotifyCredentials()
	if err != nil {
		return nil, err
	}
	return spotifetch.Authorize(ctx, id, secret, viper.GetString("redirect_url"), scopes...)
}

// readScopes are the scopes the playlist analysis commands need.
var readScopes = []string{
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
}

// writeScopes are the scopes the playlist maintenance commands need.
var writeScopes = []string{
	spotifyauth.ScopePlaylistModifyPublic,
	spotifyauth.ScopePlaylistModifyPrivate,
	spotifyauth.ScopePlaylistReadPrivate,
}
