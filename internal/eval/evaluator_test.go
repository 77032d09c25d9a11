package eval

import (
	"testing"

	"github.com/chazu/scriptrunner/internal/environment"
	"github.com/chazu/scriptrunner/internal/parser"
	"github.com/chazu/scriptrunner/internal/value"
)

func runOK(t *testing.T, src string) *Evaluator {
	t.Helper()
	stmts, lexErrs, parseErrs := parser.Parse(src)
	if len(lexErrs) != 0 || len(parseErrs) != 0 {
		t.Fatalf("unexpected parse failure: lex=%v parse=%v", lexErrs, parseErrs)
	}
	ev := New(environment.New())
	ev.Run(stmts)
	if len(ev.Errors()) != 0 {
		t.Fatalf("unexpected runtime errors: %v", ev.Errors())
	}
	return ev
}

func globalVar(t *testing.T, ev *Evaluator, name string) value.Value {
	t.Helper()
	v, err := ev.global.Get(name)
	if err != nil {
		t.Fatalf("global %s not bound: %v", name, err)
	}
	return v
}

func TestArithmeticPrecedence(t *testing.T) {
	ev := runOK(t, "$x = 1 + 2 * 3")
	got := globalVar(t, ev, "$x")
	if !got.IsInt() || got.Int() != 7 {
		t.Errorf("$x = %v, want 7", got)
	}
}

func TestStringConcatenation(t *testing.T) {
	ev := runOK(t, `$s = "a" + "b"`)
	got := globalVar(t, ev, "$s")
	if !got.IsString() || got.Str() != "ab" {
		t.Errorf("$s = %v, want ab", got)
	}
}

func TestIfElseBranching(t *testing.T) {
	ev := runOK(t, `
$x = 0
$y = 0
if ($x == 0) {
	$y = 1
} else {
	$y = 2
}
`)
	got := globalVar(t, ev, "$y")
	if got.Int() != 1 {
		t.Errorf("$y = %v, want 1", got)
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	ev := runOK(t, `
$i = 0
$sum = 0
while ($i < 5) {
	$sum = $sum + $i
	$i = $i + 1
}
`)
	got := globalVar(t, ev, "$sum")
	if got.Int() != 10 {
		t.Errorf("$sum = %v, want 10", got)
	}
}

func TestForLoopWithBreak(t *testing.T) {
	ev := runOK(t, `
$sum = 0
for ($i = 0; $i < 10; $i = $i + 1) {
	if ($i == 3) {
		break
	}
	$sum = $sum + $i
}
`)
	got := globalVar(t, ev, "$sum")
	if got.Int() != 3 {
		t.Errorf("$sum = %v, want 3 (0+1+2)", got)
	}
}

func TestForLoopWithContinue(t *testing.T) {
	ev := runOK(t, `
$sum = 0
for ($i = 0; $i < 5; $i = $i + 1) {
	if ($i == 2) {
		continue
	}
	$sum = $sum + $i
}
`)
	got := globalVar(t, ev, "$sum")
	if got.Int() != 8 {
		t.Errorf("$sum = %v, want 8 (0+1+3+4)", got)
	}
}

func TestForEachSumsArray(t *testing.T) {
	ev := runOK(t, `
$total = 0
foreach ($n in [1, 2, 3, 4]) {
	$total = $total + $n
}
`)
	got := globalVar(t, ev, "$total")
	if got.Int() != 10 {
		t.Errorf("$total = %v, want 10", got)
	}
}

func TestFunctionCallAndReturn(t *testing.T) {
	ev := runOK(t, `
function add(a, b) {
	return a + b
}
$result = add(3, 4)
`)
	got := globalVar(t, ev, "$result")
	if got.Int() != 7 {
		t.Errorf("$result = %v, want 7", got)
	}
}

func TestClosureCapturesDefiningScope(t *testing.T) {
	ev := runOK(t, `
function makeAdder(n) {
	function adder(x) {
		return x + n
	}
	return adder
}
$add5 = makeAdder(5)
$result = $add5(10)
`)
	got := globalVar(t, ev, "$result")
	if got.Int() != 15 {
		t.Errorf("$result = %v, want 15", got)
	}
}

func TestArrayIndexRead(t *testing.T) {
	ev := runOK(t, `
$arr = [10, 20, 30]
$first = $arr[0]
`)
	got := globalVar(t, ev, "$first")
	if got.Int() != 10 {
		t.Errorf("$first = %v, want 10", got)
	}
}

func TestLogicalAndDoesNotShortCircuit(t *testing.T) {
	ev := runOK(t, `
$calls = 0
function mark() {
	$calls = $calls + 1
	return true
}
$result = false && mark()
`)
	if got := globalVar(t, ev, "$calls"); got.Int() != 1 {
		t.Errorf("$calls = %v, want 1 (right operand must still be evaluated)", got)
	}
	if got := globalVar(t, ev, "$result"); got.Bool() != false {
		t.Errorf("$result = %v, want false", got)
	}
}

func TestLogicalOrDoesNotShortCircuit(t *testing.T) {
	ev := runOK(t, `
$calls = 0
function mark() {
	$calls = $calls + 1
	return true
}
$result = true || mark()
`)
	if got := globalVar(t, ev, "$calls"); got.Int() != 1 {
		t.Errorf("$calls = %v, want 1 (right operand must still be evaluated)", got)
	}
	if got := globalVar(t, ev, "$result"); got.Bool() != true {
		t.Errorf("$result = %v, want true", got)
	}
}

func TestDivisionByZeroRecordsValueError(t *testing.T) {
	stmts, _, _ := parser.Parse(`$x = 1 / 0`)
	ev := New(environment.New())
	ev.Run(stmts)
	if len(ev.Errors()) != 1 {
		t.Fatalf("want 1 runtime error, got %d", len(ev.Errors()))
	}
	if ev.Errors()[0].Kind != ValueError {
		t.Errorf("kind = %v, want ValueError", ev.Errors()[0].Kind)
	}
}

func TestUndefinedVariableRecordsNameResolutionError(t *testing.T) {
	stmts, _, _ := parser.Parse(`$x = $undefined + 1`)
	ev := New(environment.New())
	ev.Run(stmts)
	if len(ev.Errors()) != 1 {
		t.Fatalf("want 1 runtime error, got %d", len(ev.Errors()))
	}
	if ev.Errors()[0].Kind != NameResolutionError {
		t.Errorf("kind = %v, want NameResolutionError", ev.Errors()[0].Kind)
	}
}

func TestTopLevelBreakRecordsControlFlowError(t *testing.T) {
	stmts, _, _ := parser.Parse(`break`)
	ev := New(environment.New())
	ev.Run(stmts)
	if len(ev.Errors()) != 1 {
		t.Fatalf("want 1 runtime error, got %d", len(ev.Errors()))
	}
	if ev.Errors()[0].Kind != ControlFlowError {
		t.Errorf("kind = %v, want ControlFlowError", ev.Errors()[0].Kind)
	}
}

func TestErrorInOneStatementDoesNotStopTheRest(t *testing.T) {
	stmts, _, _ := parser.Parse(`
$a = 1 / 0
$b = 99
`)
	ev := New(environment.New())
	ev.Run(stmts)
	if len(ev.Errors()) != 1 {
		t.Fatalf("want 1 runtime error, got %d", len(ev.Errors()))
	}
	got := globalVar(t, ev, "$b")
	if got.Int() != 99 {
		t.Errorf("$b = %v, want 99 (must still execute after prior statement's error)", got)
	}
}
