// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package lamina

// Text protocol: every call returns a string, with failures rendered as
// "Error: <Kind>: <message>". Hosts that exchange plain text use these.

// Success is returned by ExecuteText when every statement ran.
const Success = "Execution completed successfully"

func errorText(err error) string {
	return "Error: " + err.Error()
}

// ExecuteText runs code and reports the outcome as text.
func (r *Interpreter) ExecuteText(code string) string {
	if err := r.Execute(code); err != nil {
		return errorText(err)
	}
	return Success
}

// EvalText evaluates expr and returns its rendering or the error text.
func (r *Interpreter) EvalText(expr string) string {
	out, err := r.Eval(expr)
	if err != nil {
		return errorText(err)
	}
	return out
}

// GetVariableText returns the rendering of a global or the error text.
func (r *Interpreter) GetVariableText(name string) string {
	out, err := r.GetVariable(name)
	if err != nil {
		return errorText(err)
	}
	return out
}

// EvaluateExpression evaluates expr in a fresh interpreter.
func EvaluateExpression(expr string) string {
	return New().EvalText(expr)
}

// ExecuteCode runs code in a fresh interpreter.
func ExecuteCode(code string) string {
	return New().ExecuteText(code)
}
