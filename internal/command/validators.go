// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/staranto/linkctl/internal/config"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func NotEmptyValidator(value any) error {
	if value.(string) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

func LevelValidator(value any) error {
	return oneOf(value, config.AnnotationLevels)
}

func OutputValidator(value any) error {
	return oneOf(value, config.Outputs)
}

func BackendValidator(value any) error {
	return oneOf(value, config.CacheBackends)
}

func PositiveDurationValidator(value any) error {
	if value.(time.Duration) <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

func NonNegativeDurationValidator(value any) error {
	if value.(time.Duration) < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func oneOf(value any, valid []string) error {
	s, _ := value.(string)
	if !slices.Contains(valid, s) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}
