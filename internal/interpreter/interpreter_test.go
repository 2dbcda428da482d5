package interpreter_test

import (
	"context"
	"strings"
	"testing"

	"github.com/FreePlacki/Klox/internal/interpreter"
	"github.com/FreePlacki/Klox/internal/parser"
	"github.com/FreePlacki/Klox/internal/scanner"
	"github.com/stretchr/testify/assert"
)

func TestInterpret(t *testing.T) {
	testcases := []struct {
		name string
		in   string
		eval string
		out  string
		err  string
	}{
		{name: `simple expression`, in: `1 + 2;`, eval: `3`},
		{name: `grouped`, in: `(1 + 2);`, eval: `3`},
		{name: `nested`, in: `(1 + (2 + 3));`, eval: `6`},
		{name: `precedence asterix`, in: `1 + 2 * 3;`, eval: `7`},
		{name: `precedence slash`, in: `1 + 9 / 3;`, eval: `4`},
		{name: `precedence asterix slash`, in: `1 + 2 * 6 / 4;`, eval: `4`},
		{name: `grouping nested precedence`, in: `((1 + 2) * 3)/2;`, eval: `4.5`},
		{name: `strings`, in: `"a" + "b";`, eval: `ab`},
		{name: `string plus number`, in: `"a" + 1;`, eval: `a1`},
		{name: `number plus string errors`, in: `1 + "a";`, err: `Operands must be two strings or two numbers.`},
		{name: `boolean t`, in: `true;`, eval: `true`},
		{name: `boolean f`, in: `false;`, eval: `false`},
		{name: `bang`, in: `!false;`, eval: `true`},
		{name: `bang bang`, in: `!!false;`, eval: `false`},
		{name: `eqeq number`, in: `1 == 1;`, eval: `true`},
		{name: `eqeq number false`, in: `1 == 2;`, eval: `false`},
		{name: `eqeq string`, in: `"a" == "a";`, eval: `true`},
		{name: `bangeq number`, in: `1 != 1;`, eval: `false`},
		{name: `lt number`, in: `1 < 2;`, eval: `true`},
		{name: `lte number`, in: `1 <= 1;`, eval: `true`},
		{name: `gt number`, in: `2 > 1;`, eval: `true`},
		{name: `gte number`, in: `1 >= 1;`, eval: `true`},
		{name: `division by zero`, in: `1 / 0;`, err: `division by 0`},
		{name: `minus needs number`, in: `-"a";`, err: `Operand must be a number.`},
		{name: `arithmetic needs numbers`, in: `1 - "a";`, err: `Operands must be numbers.`},
		{name: `bang as boolean`, in: `!"a";`, eval: `false`},
		{name: `empty var`, in: `var a;`, eval: ``},
		{name: `empty var eval`, in: `var a;a;`, eval: `nil`},
		{name: `var init`, in: `var a =1;a;`, eval: `1`},
		{name: `var assign`, in: `var a =1;a=2;`, eval: `2`},
		{name: `var multiple var math`, in: `var a =1;var b=2;a+b;`, eval: `3`},
		{name: `var assign error unrecognized var`, in: `b=1;`, err: `Undefined variable 'b'.`},
		{
			name: `var scope top level`,
			in:   `var a=1;{a=2; print a; {a=3; print a;{a=4; print a; }}}print a;a;`,
			eval: `4`,
			out:  "2\n3\n4\n4\n",
		},
		{
			name: `var scope nested`,
			in:   `var a=1;{var a=2; print a; {var a=3; print a;{var a=4; print a; }}}print a;a;`,
			eval: `1`,
			out:  "2\n3\n4\n1\n",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			output, stdout, err := evaluate(tc.in)
			if tc.err != "" {
				assert.ErrorContains(t, err, tc.err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.eval, output)
				assert.Equal(t, tc.out, stdout)
			}
		})
	}
}

func evaluate(script string) (string, string, error) {
	stdout := strings.Builder{}

	eval := interpreter.NewInterpreter(
		interpreter.WithStdout(&stdout),
		interpreter.WithStderr(&stdout),
	)

	scan := scanner.NewScanner(script)
	tokens, err := scan.Scan()
	if err != nil {
		return "", stdout.String(), err
	}

	p := parser.NewParser(tokens)
	stmts, err := p.Parse()
	if err != nil {
		return "", stdout.String(), err
	}

	resolver := interpreter.NewResolver(eval)
	if err := resolver.Resolve(stmts); err != nil {
		return "", stdout.String(), err
	}

	svalue, shouldPrint, err := eval.Interpret(context.Background(), stmts)
	if !shouldPrint {
		svalue = ""
	}
	return svalue, stdout.String(), err
}
