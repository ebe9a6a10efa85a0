// Saturn is a deterministic, resource-bounded policy decision engine with a
// legacy YAML policy bridge.
//
// Usage:
//
//	# Evaluate one request against a policy file
//	saturn evaluate --policy policy.yaml --username dev --group admins
//
//	# Validate a policy file against the engine bounds
//	saturn validate --policy policy.yaml
//
//	# Shadow-compare the reference evaluator and the engine
//	saturn shadow --policy policy.yaml --request request.json
//
//	# Hunt for divergences with the differential fuzzer
//	saturn fuzz --iterations 100000 --seed 42
//
//	# Show version information
//	saturn version
package main

func main() {
	Execute()
}
