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

func TestInterpretE2E(t *testing.T) {
	testcases := []struct {
		name string
		in   string
		eval string
		out  string
		err  string
	}{
		{name: `ternary true branch`, in: `1 < 2 ? "yes" : "no";`, eval: `yes`},
		{name: `ternary false branch`, in: `1 > 2 ? "yes" : "no";`, eval: `no`},
		{name: `ternary right associative`, in: `true ? 1 : true ? 2 : 3;`, eval: `1`},
		{name: `ternary right associative nested else`, in: `false ? 1 : true ? 2 : 3;`, eval: `2`},

		{name: `logic and`, in: `1 and 2;`, eval: `2`},
		{name: `logic and short circuit`, in: `nil and Unknown;`, eval: `nil`},
		{name: `logic or`, in: `1 or 2;`, eval: `1`},
		{name: `logic or short circuit`, in: `1 or Unknown;`, eval: `1`},

		{
			name: `while loop`,
			in:   `var a=1;while(a<4){print a;a=a+1;}`,
			out:  "1\n2\n3\n",
		},
		{
			name: `for loop`,
			in:   `for(var a=1;a<4;a=a+1){print a;}`,
			out:  "1\n2\n3\n",
		},
		{
			name: `while break`,
			in:   `var a=0;while(true){if(a>3)break;a=a+1;print a;}`,
			out:  "1\n2\n3\n4\n",
		},
		{
			name: `for break`,
			in:   `for(var a=0;a<10;a=a+1){if(a>3)break;print a;}`,
			out:  "0\n1\n2\n3\n",
		},
		{
			name: `while continue`,
			in:   `var a=0;while(a<6){a=a+1;if(a<3)continue;print a;}`,
			out:  "3\n4\n5\n6\n",
		},

		{name: `break outside loop`, in: `break;`, err: `Must be inside a loop`},
		{name: `continue outside loop`, in: `continue;`, err: `Must be inside a loop`},
		{
			name: `break inside function inside loop is a static error`,
			in:   `while (true) { fun f() { break; } }`,
			err:  `Must be inside a loop`,
		},

		{name: `define fun add`, in: `fun add(a,b){return a+b;}add(1,2);`, eval: `3`},
		{name: `fun no explicit return`, in: `fun f(){1;}f();`, eval: `nil`},
		{
			name: `recursive fun`,
			in:   `fun fact(n){if (n==0) return 1; return n*fact(n-1);}fact(5);`,
			eval: `120`,
		},
		{
			name: `closures capture declaration env`,
			in:   `var a="global";{fun showA(){print a;}showA();var a="block";showA();print a;}`,
			out:  "global\nglobal\nblock\n",
		},
		{
			name: `closure over counter variable`,
			in:   `fun counter(){var i=0;fun inc(){i=i+1;return i;}return inc;}var c=counter();c();c();c();`,
			eval: `3`,
		},
		{name: `arity mismatch`, in: `fun add(a,b){return a+b;}add(1);`, err: `Expected 2 arguments but got 1.`},
		{name: `call non callable`, in: `"not a function"();`, err: `Can only call functions and classes.`},
		{name: `clock builtin`, in: `clock();`},
		{name: `clock wrong arity`, in: `clock(1);`, err: `Expected 0 arguments but got 1.`},

		{name: `self reference in own initializer`, in: `var a=1;{var a=a;}`, err: `Can't read variable in its own initializer.`},
		{name: `redeclare in same scope`, in: `{var a=1;var a=2;}`, err: `Variable with this name already exists in this scope.`},
		{name: `return at top level`, in: `return 1;`, err: `Can't return from top-level.`},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			output, stdout, err := evaluate(tc.in)
			if tc.err != "" {
				assert.ErrorContains(t, err, tc.err)
				return
			}
			assert.NoError(t, err)
			if tc.eval != "" {
				assert.Equal(t, tc.eval, output)
			}
			if tc.out != "" {
				assert.Equal(t, tc.out, stdout)
			}
		})
	}
}

func TestInterpretReplLineByLine(t *testing.T) {
	results, out, err := replLineByLine(
		`var dd;print dd;dd;`,
		`print dd;dd;`,
		`dd=5;`,
		`dd;`,
	)

	assert.NoError(t, err)
	assert.Equal(t, []string{"nil", "nil", "5", "5"}, results)
	assert.Equal(t, "nil\nnil\n", out)
}

// Lines that don't end on a bare expression statement must not trigger the
// REPL's auto-print: a trailing print/var/fun/if has nothing to echo back,
// and that's distinct from an expression that evaluates to the nil value.
func TestInterpretReplLineByLineNoAutoPrintWithoutTrailingExpression(t *testing.T) {
	results, out, err := replLineByLine(
		`print "hi";`,
		`var x = 5;`,
		`fun f() {}`,
		`if (true) { print 1; }`,
		``,
	)

	assert.NoError(t, err)
	assert.Equal(t, []string{"", "", "", "", ""}, results)
	assert.Equal(t, "hi\n1\n", out)
}

func replLineByLine(script ...string) ([]string, string, error) {
	stdout := strings.Builder{}
	ctx := context.Background()

	eval := interpreter.NewInterpreter(
		interpreter.WithStdout(&stdout),
		interpreter.WithStderr(&stdout),
	)
	resolver := interpreter.NewResolver(eval)

	var results []string
	for _, s := range script {
		scan := scanner.NewScanner(s)
		tokens, err := scan.Scan()
		if err != nil {
			return nil, stdout.String(), err
		}

		p := parser.NewParser(tokens)
		stmts, err := p.Parse()
		if err != nil {
			return nil, stdout.String(), err
		}

		if err := resolver.Resolve(stmts); err != nil {
			return nil, stdout.String(), err
		}

		value, shouldPrint, err := eval.Interpret(ctx, stmts)
		if err != nil {
			return nil, stdout.String(), err
		}
		if !shouldPrint {
			value = ""
		}
		results = append(results, value)
	}

	return results, stdout.String(), nil
}
