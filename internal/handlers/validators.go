package handlers

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerOnce sync.Once

// RegisterValidators adds the decimal binding tags used by the request DTOs:
// dgt0 (strictly positive), dgte0 (zero or positive) and dscale=N (at most N decimal places).
// It panics when a tag cannot be registered, since every bind would then fail.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic(fmt.Sprintf("unexpected binding validator engine %T", binding.Validator.Engine()))
		}
		tags := map[string]validator.Func{
			"dgt0":   decimalCheck(func(d decimal.Decimal, _ string) bool { return d.IsPositive() }),
			"dgte0":  decimalCheck(func(d decimal.Decimal, _ string) bool { return !d.IsNegative() }),
			"dscale": decimalCheck(scaleAtMost),
		}
		for tag, fn := range tags {
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(fmt.Sprintf("failed to register %s validator: %v", tag, err))
			}
		}
	})
}

// scaleAtMost checks d against the tag parameter, defaulting to the money scale.
func scaleAtMost(d decimal.Decimal, param string) bool {
	places := int64(domain.MoneyScale)
	if param != "" {
		n, err := strconv.ParseInt(param, 10, 32)
		if err != nil {
			return false
		}
		places = n
	}
	return domain.HasScale(d, int32(places))
}

func decimalCheck(ok func(d decimal.Decimal, param string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		switch d := fl.Field().Interface().(type) {
		case decimal.Decimal:
			return ok(d, fl.Param())
		case *decimal.Decimal:
			return d == nil || ok(*d, fl.Param())
		default:
			return false
		}
	}
}
