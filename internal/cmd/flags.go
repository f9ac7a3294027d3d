package cmd

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// mustBind binds each viper key to the named flag of fs. Binding only fails
// for a flag that was never defined, which is a programming error.
func mustBind(fs *pflag.FlagSet, bindings map[string]string) {
	for key, name := range bindings {
		flag := fs.Lookup(name)
		if flag == nil {
			panic(fmt.Sprintf("cmd: flag --%s for %s is not defined", name, key))
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			panic(fmt.Sprintf("cmd: binding --%s to %s: %v", name, key, err))
		}
	}
}
