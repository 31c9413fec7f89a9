package filter

import "fmt"

func compile(node exprNode) ([]instr, error) {
	switch n := node.(type) {
	case constNode:
		return []instr{{op: opPushConst, arg: n.value}}, nil
	case xNode:
		return []instr{{op: opPushX}}, nil
	case notNode:
		inner, err := compile(n.inner)
		if err != nil {
			return nil, err
		}

		return append(inner, instr{op: opNot}), nil
	case andNode:
		return compileChain(n.factors, opAnd)
	case orNode:
		return compileChain(n.terms, opOr)
	case compareNode:
		return compileCompare(n)
	default:
		return nil, fmt.Errorf("filter: unhandled node type %T", node)
	}
}

func compileChain(nodes []exprNode, joiner opcode) ([]instr, error) {
	code, err := compile(nodes[0])
	if err != nil {
		return nil, err
	}

	for _, n := range nodes[1:] {
		next, nextErr := compile(n)
		if nextErr != nil {
			return nil, nextErr
		}

		code = append(code, next...)
		code = append(code, instr{op: joiner})
	}

	return code, nil
}

// compileCompare handles chained comparisons (e.g. "0 < x < 10") by emitting
// each adjacent pair's comparison and ANDing the results together, matching
// the usual chained-relational reading rather than left-to-right boolean folding.
func compileCompare(n compareNode) ([]instr, error) {
	values := append([]exprNode{n.lhs}, n.rhs...)

	var code []instr

	joined := 0

	for i, op := range n.ops {
		lhsCode, err := compile(values[i])
		if err != nil {
			return nil, err
		}

		rhsCode, err := compile(values[i+1])
		if err != nil {
			return nil, err
		}

		pairCode := append(append([]instr{}, lhsCode...), rhsCode...)

		opcodeForOp, err := relOpcode(op)
		if err != nil {
			return nil, err
		}

		pairCode = append(pairCode, instr{op: opcodeForOp})

		code = append(code, pairCode...)

		if joined > 0 {
			code = append(code, instr{op: opAnd})
		}

		joined++
	}

	return code, nil
}

func relOpcode(op string) (opcode, error) {
	switch op {
	case "<":
		return opLess, nil
	case "<=":
		return opLessEq, nil
	case ">":
		return opGreater, nil
	case ">=":
		return opGreaterEq, nil
	case "==":
		return opEqual, nil
	default:
		return 0, fmt.Errorf("filter: unknown operator %q", op)
	}
}
