package http

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-api/internal/domain"
)

var validate = validator.New()

func init() {
	// decimal.Decimal como número para que gt/min/required no entren en pánico.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Los mensajes usan el nombre JSON/query del campo, el que ve el cliente.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
}

// bindBody parsea el JSON del body y aplica los tags validate.
func bindBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.Validation("cuerpo inválido: %v", err)
	}
	return validateStruct(dst)
}

// bindQuery parsea el query string y aplica los tags validate.
func bindQuery(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return domain.Validation("query inválido: %v", err)
	}
	return validateStruct(dst)
}

func validateStruct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.Validation("%v", err)
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, describeField(fe))
	}
	sort.Strings(fields)
	return domain.Validation("%s", strings.Join(fields, "; "))
}

// describeField arma "items[0].quantity: gt=0" a partir del namespace sin el tipo raíz.
func describeField(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if fe.Param() != "" {
		return ns + ": " + fe.Tag() + "=" + fe.Param()
	}
	return ns + ": " + fe.Tag()
}
