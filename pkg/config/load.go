package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/wheelforge/wheelforge/pkg/errors"
	"github.com/wheelforge/wheelforge/pkg/global"
	"github.com/wheelforge/wheelforge/pkg/util/files"
)

const maxSearchDepth = 100

// Returns the project's root directory, or the directory specified by the --project-dir flag
func GetProjectDir(projectDirFlag string) (string, error) {
	if projectDirFlag != "" {
		return projectDirFlag, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findProjectRootDir(cwd)
}

// Loads and instantiates a Config object. projectDirFlag overrides the
// default behavior of walking up from the current working directory.
func GetConfig(projectDirFlag string) (*Config, string, error) {
	rootDir, err := GetProjectDir(projectDirFlag)
	if err != nil {
		return nil, "", err
	}
	configPath := path.Join(rootDir, global.ConfigFilename)

	config, err := loadConfigFromFile(configPath)
	if err != nil {
		return nil, "", err
	}

	err = config.ValidateAndComplete()
	return config, rootDir, err
}

// Given a file path, attempt to load a config from that file
func loadConfigFromFile(file string) (*Config, error) {
	exists, err := files.Exists(file)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%s does not exist in %s. Are you in the right directory?", filepath.Base(file), filepath.Dir(file))
	}

	contents, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	return FromYAML(contents)
}

// Given a directory, find the wheelforge config file in that directory
func findConfigPathInDirectory(dir string) (configPath string, err error) {
	filePath := path.Join(dir, global.ConfigFilename)
	exists, err := files.Exists(filePath)
	if err != nil {
		return "", fmt.Errorf("Failed to scan directory %s for %s: %s", dir, filePath, err)
	} else if exists {
		return filePath, nil
	}

	return "", errors.ConfigNotFound(fmt.Sprintf("%s not found in %s", global.ConfigFilename, dir))
}

// Walk up the directory tree to find the root of the project.
// The project root is defined as the directory housing a wheelforge.yaml file.
func findProjectRootDir(startDir string) (string, error) {
	dir := startDir
	for i := 0; i < maxSearchDepth; i++ {
		switch _, err := findConfigPathInDirectory(dir); {
		case err != nil && !errors.IsConfigNotFound(err):
			return "", err
		case err == nil:
			return dir, nil
		case dir == "." || dir == "/":
			return "", errors.ConfigNotFound(fmt.Sprintf("%s not found in %s (or in any parent directories)", global.ConfigFilename, startDir))
		}

		dir = filepath.Dir(dir)
	}

	return "", errors.ConfigNotFound(fmt.Sprintf("No %s found in parent directories.", global.ConfigFilename))
}
